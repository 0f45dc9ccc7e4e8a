package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tarmac-project/fetchmock"
	"github.com/tarmac-project/fetchmock/hostmock"
)

// Render returns a stable text form of calls. Each call is a header line
// "#SEQ METHOD URL" followed by indented headers, the body and the outcome.
func Render(calls []fetchmock.Call) string {
	var b strings.Builder
	for i, c := range calls {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "#%d ", c.Seq)
		writeRequest(&b, c.Request)
		if c.Unmocked() {
			b.WriteString("  (unmocked)\n")
		} else {
			fmt.Fprintf(&b, "  -> %s\n", c.Registration)
		}
	}
	return b.String()
}

// RenderRequest returns the stable text form of a single request.
func RenderRequest(req *fetchmock.Request) string {
	var b strings.Builder
	writeRequest(&b, req)
	return b.String()
}

// RenderPayload decodes a protobuf HTTPClient payload, as sent over the waPC
// httpclient capability, and renders it like RenderRequest.
func RenderPayload(payload []byte) (string, error) {
	req, err := hostmock.DecodeRequest(payload)
	if err != nil {
		return "", err
	}
	return RenderRequest(req), nil
}

func writeRequest(b *strings.Builder, req *fetchmock.Request) {
	if req == nil {
		b.WriteString("<nil request>\n")
		return
	}
	fmt.Fprintf(b, "%s %s\n", req.Method, req.URL)

	keys := make([]string, 0, len(req.Header))
	for k := range req.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %s\n", k, strings.Join(req.Header[k], ", "))
	}

	if len(req.Body) > 0 {
		fmt.Fprintf(b, "  body: %s\n", renderBody(req.Body))
	}
}

// renderBody canonicalises JSON (sorted keys, no insignificant whitespace)
// and quotes anything else.
func renderBody(body []byte) string {
	var v any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&v); err == nil && !dec.More() {
		if out, err := json.Marshal(v); err == nil {
			return string(out)
		}
	}
	return fmt.Sprintf("%q", body)
}
