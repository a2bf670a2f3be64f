package raw

import "testing"

func TestGetDefaults(t *testing.T) {
	c := New().Prefix("RAWT_")
	if got := c.Get("MISSING", "fallback"); got != "fallback" {
		t.Fatalf("Get missing = %q", got)
	}
	t.Setenv("RAWT_NAME", "  agent  ")
	if got := c.Get("NAME", ""); got != "agent" {
		t.Fatalf("Get = %q, want trimmed value", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("RAWT_")
	if !c.GetBool("MISSING", true) {
		t.Fatalf("missing should fall back to default")
	}
	for _, v := range []string{"1", "true", "yes"} {
		t.Setenv("RAWT_ON", v)
		if !c.GetBool("ON", false) {
			t.Fatalf("GetBool(%q) = false", v)
		}
	}
	t.Setenv("RAWT_ON", "off")
	if c.GetBool("ON", true) {
		t.Fatalf("non-truthy value should be false")
	}
}

func TestGetInt(t *testing.T) {
	c := New().Prefix("RAWT_")
	if got := c.GetInt("MISSING", 7); got != 7 {
		t.Fatalf("missing = %d", got)
	}
	t.Setenv("RAWT_N", "42")
	if got := c.GetInt("N", 0); got != 42 {
		t.Fatalf("GetInt = %d", got)
	}
	t.Setenv("RAWT_N", "-3")
	if got := c.GetInt("N", 5); got != 5 {
		t.Fatalf("negative should fall back, got %d", got)
	}
	t.Setenv("RAWT_N", "x9")
	if got := c.GetInt("N", 5); got != 5 {
		t.Fatalf("non-numeric should fall back, got %d", got)
	}
}
