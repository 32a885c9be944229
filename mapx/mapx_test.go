package mapx

import "testing"

func TestKeysValues(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3}
	if got := SortedKeys(m); len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("SortedKeys = %v", got)
	}
	if got := Values(m); len(got) != 3 {
		t.Fatalf("Values = %v", got)
	}
}

func TestMerge(t *testing.T) {
	got := Merge(
		map[string]int{"a": 1, "b": 1},
		map[string]int{"b": 2, "c": 2},
	)
	if got["a"] != 1 || got["b"] != 2 || got["c"] != 2 {
		t.Fatalf("Merge = %v", got)
	}
	if got := Merge[string, int](); len(got) != 0 {
		t.Fatalf("Merge of nothing = %v", got)
	}
}

func TestInvert(t *testing.T) {
	got := Invert(map[string]int{"a": 1, "b": 2})
	if got[1] != "a" || got[2] != "b" {
		t.Fatalf("Invert = %v", got)
	}
}

func TestFilterAndGetOr(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3}
	got := Filter(m, func(_ string, v int) bool { return v > 1 })
	if len(got) != 2 || got["b"] != 2 {
		t.Fatalf("Filter = %v", got)
	}
	if GetOr(m, "a", 9) != 1 || GetOr(m, "z", 9) != 9 {
		t.Fatalf("GetOr wrong")
	}
}

func TestCloneAndEqual(t *testing.T) {
	m := map[string]int{"a": 1}
	c := Clone(m)
	c["a"] = 2
	if m["a"] != 1 {
		t.Fatalf("Clone shares storage")
	}
	if Clone[string, int](nil) != nil {
		t.Fatalf("Clone(nil) should be nil")
	}
	if !Equal(map[string]int{"a": 1}, map[string]int{"a": 1}) {
		t.Fatalf("Equal false negative")
	}
	if Equal(map[string]int{"a": 1}, map[string]int{"a": 2}) {
		t.Fatalf("Equal false positive")
	}
	if Equal(map[string]int{"a": 1}, map[string]int{}) {
		t.Fatalf("Equal ignores length")
	}
}
