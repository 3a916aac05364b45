package main

import "testing"

func TestParseItemSpec_Valid(t *testing.T) {
	it, err := parseItemSpec("0x1000:u48:1234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ID != 0x1000 {
		t.Fatalf("got id %#x, want 0x1000", it.ID)
	}
	if len(it.Format) != 1 || it.Format[0].Code != 'u' || it.Format[0].Bits != 48 {
		t.Fatalf("unexpected format field: %+v", it.Format)
	}
	if len(it.Records) != 1 || it.Records[0][0] != 1234567 {
		t.Fatalf("unexpected records: %+v", it.Records)
	}
}

func TestParseItemSpec_WrongFieldCount(t *testing.T) {
	if _, err := parseItemSpec("0x1000:u48"); err == nil {
		t.Fatal("expected error for missing value field")
	}
}

func TestParseItemSpec_BadID(t *testing.T) {
	if _, err := parseItemSpec("notanumber:u48:1"); err == nil {
		t.Fatal("expected error for malformed id")
	}
}

func TestParseItemSpecs_PropagatesFirstError(t *testing.T) {
	if _, err := parseItemSpecs([]string{"0x1:u8:1", "bad"}); err == nil {
		t.Fatal("expected error from second spec")
	}
}
