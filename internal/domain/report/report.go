// Package report defines the glTF-Validator report model and its JSON wire
// contract. Wire names are fixed by the struct tags below; optional members
// are nil when absent and are omitted again on encode.
package report

import "encoding/json"

// ValidationReport is the top-level document printed by gltf_validator.
type ValidationReport struct {
	URI              *string   `json:"uri,omitzero"`
	MimeType         *MimeType `json:"mimeType,omitzero"`
	ValidatorVersion string    `json:"validatorVersion"`
	ValidatedAt      *string   `json:"validatedAt,omitzero"`
	Issues           Issues    `json:"issues"`
	Info             *Info     `json:"info,omitzero"`
}

// Issues holds the aggregate counters and the emitted messages.
// When Truncated is set the counters may exceed the listed messages.
type Issues struct {
	NumErrors   uint32    `json:"numErrors"`
	NumWarnings uint32    `json:"numWarnings"`
	NumInfos    uint32    `json:"numInfos"`
	NumHints    uint32    `json:"numHints"`
	Messages    []Message `json:"messages"`
	Truncated   bool      `json:"truncated"`
}

// Message is a single diagnostic.
type Message struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	// Pointer is an RFC 6901 JSON Pointer into the asset. Nil for file-level issues.
	Pointer *string `json:"pointer,omitzero"`
	// Offset is a byte offset into the GLB container.
	Offset  *uint32 `json:"offset,omitzero"`
	Message string  `json:"message"`
}

// Info describes the validated asset.
type Info struct {
	Version            string     `json:"version"`
	MinVersion         *string    `json:"minVersion,omitzero"`
	Generator          *string    `json:"generator,omitzero"`
	ExtensionsUsed     []string   `json:"extensionsUsed,omitzero"`
	ExtensionsRequired []string   `json:"extensionsRequired,omitzero"`
	Resources          []Resource `json:"resources,omitzero"`
}

// Resource is a sub-resource referenced by the asset (buffer, image, ...).
type Resource struct {
	Pointer    string  `json:"pointer"`
	Storage    Storage `json:"storage"`
	MimeType   *string `json:"mimeType,omitzero"`
	ByteLength *uint64 `json:"byteLength,omitzero"`
	URI        *string `json:"uri,omitzero"`
	Image      *Image  `json:"image,omitzero"`
}

// Image carries metadata for image resources.
type Image struct {
	Width     uint32     `json:"width"`
	Height    uint32     `json:"height"`
	Format    *Format    `json:"format,omitzero"`
	Primaries *Primaries `json:"primaries,omitzero"`
	Transfer  *Transfer  `json:"transfer,omitzero"`
	Bits      *uint32    `json:"bits,omitzero"`
}

// IsGLB reports whether the validated asset was a binary container.
func (r *ValidationReport) IsGLB() bool {
	return r.MimeType != nil && *r.MimeType == MimeTypeGLB
}

// MaxSeverity returns the most severe listed message. ok is false when the
// report lists no messages.
func (r *ValidationReport) MaxSeverity() (sev Severity, ok bool) {
	for i, m := range r.Issues.Messages {
		if i == 0 || m.Severity.MoreSevereThan(sev) {
			sev = m.Severity
		}
		ok = true
	}
	return sev, ok
}

// CountBySeverity counts the listed messages of the given severity.
func (is Issues) CountBySeverity(sev Severity) int {
	n := 0
	for _, m := range is.Messages {
		if m.Severity == sev {
			n++
		}
	}
	return n
}

// Count returns the aggregate counter for sev.
func (is Issues) Count(sev Severity) uint32 {
	switch sev {
	case SeverityError:
		return is.NumErrors
	case SeverityWarning:
		return is.NumWarnings
	case SeverityInformation:
		return is.NumInfos
	case SeverityHint:
		return is.NumHints
	}
	return 0
}

// Consistent reports whether every counter matches the listed messages.
// Truncated issue lists are always considered consistent.
func (is Issues) Consistent() bool {
	if is.Truncated {
		return true
	}
	for _, sev := range Severities {
		if int(is.Count(sev)) != is.CountBySeverity(sev) {
			return false
		}
	}
	return true
}

// MarshalJSON always emits the messages array, even for an Issues value
// built in memory with a nil slice, since the member is required on decode.
func (is Issues) MarshalJSON() ([]byte, error) {
	type wire Issues
	w := wire(is)
	if w.Messages == nil {
		w.Messages = []Message{}
	}
	return json.Marshal(w)
}

func (r *ValidationReport) UnmarshalJSON(data []byte) error { return decodeReport("", data, r) }
func (is *Issues) UnmarshalJSON(data []byte) error          { return decodeIssues("", data, is) }
func (m *Message) UnmarshalJSON(data []byte) error          { return decodeMessage("", data, m) }
func (in *Info) UnmarshalJSON(data []byte) error            { return decodeInfo("", data, in) }
func (res *Resource) UnmarshalJSON(data []byte) error       { return decodeResource("", data, res) }
func (im *Image) UnmarshalJSON(data []byte) error           { return decodeImage("", data, im) }
