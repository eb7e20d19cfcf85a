package v1

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// InvocationIDHeader carries the host-assigned invocation id.
const InvocationIDHeader = "X-Azure-Functions-InvocationId"

// BlobBinding is the name of the trigger binding in function.json.
const BlobBinding = "blob"

// InvokeRequest is the body the function host POSTs to /{functionName}.
// - Data: input bindings by name; the blob trigger arrives as a JSON string
// - Metadata: trigger metadata (name, uri, properties, sys)
type InvokeRequest struct {
	Data     map[string]json.RawMessage `json:"Data"`
	Metadata map[string]json.RawMessage `json:"Metadata"`
}

// InvokeResponse is returned to the host. Logs are appended to the
// invocation's log stream by the host.
type InvokeResponse struct {
	Outputs     map[string]any `json:"Outputs"`
	Logs        []string       `json:"Logs"`
	ReturnValue any            `json:"ReturnValue"`
}

// Blob returns the trigger payload. A base64 (std) string is decoded; any
// other string is taken as the raw bytes. ok is false when the binding is
// missing or not a JSON string.
func (r InvokeRequest) Blob() (data []byte, ok bool) {
	raw, found := r.Data[BlobBinding]
	if !found {
		return nil, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	if b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s)); err == nil {
		return b, true
	}
	return []byte(s), true
}

// BlobName returns Metadata.name, the path of the triggering blob.
func (r InvokeRequest) BlobName() string {
	raw, ok := r.Metadata["name"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
