package fixtures

import (
	"errors"
	"testing"

	wapc "github.com/wapc/wapc-guest-tinygo"
)

func TestNew(t *testing.T) {
	tt := []struct {
		name      string
		namespace string
		handler   Handler
		wantErr   error
		wantNs    string
	}{
		{
			name:      "Valid Config",
			namespace: "valid",
			handler:   func(b []byte) ([]byte, error) { return b, nil },
			wantNs:    "valid",
		},
		{
			name:    "Empty Namespace",
			handler: func(b []byte) ([]byte, error) { return b, nil },
			wantNs:  DefaultNamespace,
		},
		{
			name:      "Nil Handler",
			namespace: "invalid",
			wantErr:   ErrHandlerNil,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var registered []string
			fn, err := New(Config{
				Namespace: tc.namespace,
				Handler:   tc.handler,
				Register:  func(name string, _ wapc.Function) { registered = append(registered, name) },
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				if len(registered) != 0 {
					t.Fatalf("expected no registration on error, got %v", registered)
				}
				return
			}

			if fn.Config().Namespace != tc.wantNs {
				t.Errorf("expected namespace %q, got %q", tc.wantNs, fn.Config().Namespace)
			}
			if len(registered) != 1 || registered[0] != HandlerName {
				t.Errorf("expected a single %q registration, got %v", HandlerName, registered)
			}
		})
	}
}

func TestFunction_Behavior(t *testing.T) {
	var exported wapc.Function
	fn, err := New(Config{
		Namespace: "one",
		Handler:   func([]byte) ([]byte, error) { return []byte("pong"), nil },
		Register:  func(_ string, f wapc.Function) { exported = f },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	t.Run("Exported handler", func(t *testing.T) {
		got, err := exported([]byte("ping"))
		if err != nil || string(got) != "pong" {
			t.Fatalf("expected pong, got %q (%v)", got, err)
		}
	})

	t.Run("Invoke", func(t *testing.T) {
		got, err := fn.Invoke(nil)
		if err != nil || string(got) != "pong" {
			t.Fatalf("expected pong, got %q (%v)", got, err)
		}
	})

	t.Run("Config_Immutability", func(t *testing.T) {
		got := fn.Config()
		got.Namespace = "mutated"
		if fn.Config().Namespace != "one" {
			t.Fatalf("expected namespace to remain 'one', got %q", fn.Config().Namespace)
		}
	})

	t.Run("Default registration", func(t *testing.T) {
		if _, err := New(Config{Handler: func(b []byte) ([]byte, error) { return b, nil }}); err != nil {
			t.Fatalf("New with waPC registration returned error: %v", err)
		}
	})
}
