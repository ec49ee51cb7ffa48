/*
Package metrics reports counters and histograms to the Tarmac host metrics
capability. Calls are best effort: a host failure is dropped rather than
surfaced to the caller.
*/
package metrics
