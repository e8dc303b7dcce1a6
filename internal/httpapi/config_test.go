package httpapi

import "testing"

func TestSetMaxBodyBytes(t *testing.T) {
	defer SetMaxBodyBytes(0)
	for _, n := range []int64{-1, 0} {
		SetMaxBodyBytes(n)
		if maxBodyBytes != defaultMaxBodyBytes {
			t.Fatalf("SetMaxBodyBytes(%d): got %d, want default", n, maxBodyBytes)
		}
	}
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestSetCORS_Defaults(t *testing.T) {
	defer SetCORS(CORS{})
	SetCORS(CORS{Origins: []string{"http://a"}})
	if len(corsPolicy.Methods) == 0 || len(corsPolicy.Headers) == 0 {
		t.Fatalf("expected default methods/headers, got %+v", corsPolicy)
	}
	if corsPolicy.middleware() == nil {
		t.Fatalf("expected CORS middleware with origins set")
	}
	SetCORS(CORS{})
	if corsPolicy.middleware() != nil {
		t.Fatalf("expected no CORS middleware without origins")
	}
}
