/*
Package bucketlist fakes the Cloud Storage bucket listing API
(GET /storage/v1/b) on a MockServer instance.

Expectation builds the rule, and Installer registers it once, logging
"expectation created" on success or the error on failure. Nothing is retried
and no error escapes Install's logging except through its return value, so a
test harness can fire it and move on.
*/
package bucketlist
