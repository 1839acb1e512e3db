package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/uganda-geodata/pkg/ugdata"
)

func TestWritePayloadJSON(t *testing.T) {
	var buf bytes.Buffer
	payload := map[string]any{"id": "1", "name": "Kampala"}
	if err := writePayload(&buf, "json", payload); err != nil {
		t.Fatalf("writePayload: %v", err)
	}
	want := "{\n  \"id\": \"1\",\n  \"name\": \"Kampala\"\n}\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWritePayloadYAML(t *testing.T) {
	var buf bytes.Buffer
	payload := []any{map[string]any{"name": "Gulu", "population": json.Number("150000")}}
	if err := writePayload(&buf, "YAML", payload); err != nil {
		t.Fatalf("writePayload: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "- name: Gulu") || !strings.Contains(out, "population: 150000") {
		t.Fatalf("unexpected yaml output:\n%s", out)
	}
}

func TestWritePayloadRejectsUnknownFormat(t *testing.T) {
	if err := writePayload(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestWriteEndpointsListsEveryEndpoint(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	if err := writeEndpoints(cmd, ugdata.Endpoints()); err != nil {
		t.Fatalf("writeEndpoints: %v", err)
	}
	out := buf.String()
	for _, e := range ugdata.Endpoints() {
		if !strings.Contains(out, e.Name) {
			t.Fatalf("output missing endpoint %q:\n%s", e.Name, out)
		}
	}
}
