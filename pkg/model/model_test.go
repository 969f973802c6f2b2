package model

import (
	"errors"
	"testing"
)

func TestEdgeKey(t *testing.T) {
	e := Edge{Gene1: "Gata1", Gene2: "Spi1"}
	if got := e.Key(); got != "Gata1-Spi1" {
		t.Errorf("Key() = %q, want %q", got, "Gata1-Spi1")
	}

	reversed := Edge{Gene1: "Spi1", Gene2: "Gata1"}
	if reversed.Key() == e.Key() {
		t.Error("edge keys must be directional")
	}
}

func TestOutcome(t *testing.T) {
	ok := Outcome{Dataset: "GSD", Algorithm: "PIDC", Status: OutcomeSuccess, Rows: 6}
	if !ok.Contributed() {
		t.Error("successful outcome should contribute")
	}
	if ok.Message() != "" {
		t.Errorf("successful outcome should have no message, got %q", ok.Message())
	}

	skipped := Outcome{Status: OutcomeSkippedError, Err: errors.New("bad header")}
	if skipped.Contributed() {
		t.Error("skipped outcome should not contribute")
	}
	if skipped.Message() != "bad header" {
		t.Errorf("Message() = %q, want %q", skipped.Message(), "bad header")
	}
}
