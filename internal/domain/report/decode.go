package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Decode parses the stdout of gltf_validator into a ValidationReport.
//
// Invalid UTF-8 sequences are replaced with U+FFFD and a leading byte order
// mark is dropped before parsing, so lossily captured output still decodes
// when its JSON structure is intact. Unknown members are ignored at every
// level. Failures are returned as *DecodeError.
func Decode(data []byte) (*ValidationReport, error) {
	text, err := coerceText(data)
	if err != nil {
		return nil, err
	}
	var r ValidationReport
	if err := decodeReport("", text, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func coerceText(data []byte) ([]byte, error) {
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return nil, &DecodeError{Kind: KindEncoding, Err: err}
	}
	return text, nil
}

// object is one decoded JSON object together with its location.
type object struct {
	path   string
	fields map[string]json.RawMessage
}

func parseObject(path string, raw []byte) (object, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return object{}, mapError(path, "", err)
	}
	if fields == nil {
		return object{}, &DecodeError{Kind: KindMalformed, Path: path, Expected: "object", Actual: "null"}
	}
	return object{path: path, fields: fields}, nil
}

func (o object) child(name string) string {
	name = strings.ReplaceAll(name, "~", "~0")
	name = strings.ReplaceAll(name, "/", "~1")
	return o.path + "/" + name
}

// lookup returns a member that is present and not null.
func (o object) lookup(name string) (json.RawMessage, bool) {
	raw, ok := o.fields[name]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

func (o object) require(name string) (json.RawMessage, error) {
	raw, ok := o.fields[name]
	if !ok {
		return nil, &DecodeError{Kind: KindMalformed, Path: o.child(name), Field: name, Expected: "required member", Actual: "missing"}
	}
	if isNull(raw) {
		return nil, &DecodeError{Kind: KindMalformed, Path: o.child(name), Field: name, Expected: "required member", Actual: "null"}
	}
	return raw, nil
}

// array splits a required or optional array member into its elements.
func (o object) array(name string, raw json.RawMessage) ([]json.RawMessage, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, mapError(o.child(name), name, err)
	}
	if elems == nil {
		elems = []json.RawMessage{}
	}
	return elems, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func requiredLeaf[T any](o object, name string, dst *T) error {
	raw, err := o.require(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return mapError(o.child(name), name, err)
	}
	return nil
}

func optionalLeaf[T any](o object, name string) (*T, error) {
	raw, ok := o.lookup(name)
	if !ok {
		return nil, nil
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, mapError(o.child(name), name, err)
	}
	return v, nil
}

// mapError converts an encoding/json or enum error into a *DecodeError.
func mapError(path, field string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	var enumErr *EnumError
	if errors.As(err, &enumErr) {
		return &DecodeError{Kind: KindUnknownEnumValue, Path: path, Field: field, Value: enumErr.Value, Err: enumErr}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{
			Kind:     KindMalformed,
			Path:     path,
			Field:    field,
			Expected: describeType(typeErr.Type),
			Actual:   typeErr.Value,
			Err:      err,
		}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DecodeError{
			Kind:     KindMalformed,
			Path:     path,
			Field:    field,
			Expected: "valid JSON",
			Actual:   fmt.Sprintf("syntax error at offset %d", syntaxErr.Offset),
			Err:      err,
		}
	}
	return &DecodeError{Kind: KindMalformed, Path: path, Field: field, Err: err}
}

func describeType(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	if t == reflect.TypeOf(Severity(0)) {
		return "severity code 0-3"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return "non-negative integer"
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return t.String()
}

func decodeReport(path string, raw []byte, r *ValidationReport) error {
	o, err := parseObject(path, raw)
	if err != nil {
		return err
	}
	var out ValidationReport
	if out.URI, err = optionalLeaf[string](o, "uri"); err != nil {
		return err
	}
	if out.MimeType, err = optionalLeaf[MimeType](o, "mimeType"); err != nil {
		return err
	}
	if err := requiredLeaf(o, "validatorVersion", &out.ValidatorVersion); err != nil {
		return err
	}
	if out.ValidatedAt, err = optionalLeaf[string](o, "validatedAt"); err != nil {
		return err
	}
	issues, err := o.require("issues")
	if err != nil {
		return err
	}
	if err := decodeIssues(o.child("issues"), issues, &out.Issues); err != nil {
		return err
	}
	if info, ok := o.lookup("info"); ok {
		out.Info = new(Info)
		if err := decodeInfo(o.child("info"), info, out.Info); err != nil {
			return err
		}
	}
	*r = out
	return nil
}

func decodeIssues(path string, raw []byte, is *Issues) error {
	o, err := parseObject(path, raw)
	if err != nil {
		return err
	}
	var out Issues
	counters := []struct {
		name string
		dst  *uint32
	}{
		{"numErrors", &out.NumErrors},
		{"numWarnings", &out.NumWarnings},
		{"numInfos", &out.NumInfos},
		{"numHints", &out.NumHints},
	}
	for _, c := range counters {
		if err := requiredLeaf(o, c.name, c.dst); err != nil {
			return err
		}
	}
	msgs, err := o.require("messages")
	if err != nil {
		return err
	}
	elems, err := o.array("messages", msgs)
	if err != nil {
		return err
	}
	// nil and empty messages share the wire form [], so both decode to nil.
	if len(elems) > 0 {
		out.Messages = make([]Message, len(elems))
	}
	for i, elem := range elems {
		if err := decodeMessage(o.child("messages")+"/"+strconv.Itoa(i), elem, &out.Messages[i]); err != nil {
			return err
		}
	}
	if err := requiredLeaf(o, "truncated", &out.Truncated); err != nil {
		return err
	}
	*is = out
	return nil
}

func decodeMessage(path string, raw []byte, m *Message) error {
	o, err := parseObject(path, raw)
	if err != nil {
		return err
	}
	var out Message
	if err := requiredLeaf(o, "code", &out.Code); err != nil {
		return err
	}
	if err := requiredLeaf(o, "severity", &out.Severity); err != nil {
		return err
	}
	if out.Pointer, err = optionalLeaf[string](o, "pointer"); err != nil {
		return err
	}
	if out.Offset, err = optionalLeaf[uint32](o, "offset"); err != nil {
		return err
	}
	if err := requiredLeaf(o, "message", &out.Message); err != nil {
		return err
	}
	*m = out
	return nil
}

func decodeInfo(path string, raw []byte, in *Info) error {
	o, err := parseObject(path, raw)
	if err != nil {
		return err
	}
	var out Info
	if err := requiredLeaf(o, "version", &out.Version); err != nil {
		return err
	}
	if out.MinVersion, err = optionalLeaf[string](o, "minVersion"); err != nil {
		return err
	}
	if out.Generator, err = optionalLeaf[string](o, "generator"); err != nil {
		return err
	}
	used, err := optionalLeaf[[]string](o, "extensionsUsed")
	if err != nil {
		return err
	}
	if used != nil {
		out.ExtensionsUsed = *used
	}
	required, err := optionalLeaf[[]string](o, "extensionsRequired")
	if err != nil {
		return err
	}
	if required != nil {
		out.ExtensionsRequired = *required
	}
	if resources, ok := o.lookup("resources"); ok {
		elems, err := o.array("resources", resources)
		if err != nil {
			return err
		}
		out.Resources = make([]Resource, len(elems))
		for i, elem := range elems {
			if err := decodeResource(o.child("resources")+"/"+strconv.Itoa(i), elem, &out.Resources[i]); err != nil {
				return err
			}
		}
	}
	*in = out
	return nil
}

func decodeResource(path string, raw []byte, res *Resource) error {
	o, err := parseObject(path, raw)
	if err != nil {
		return err
	}
	var out Resource
	if err := requiredLeaf(o, "pointer", &out.Pointer); err != nil {
		return err
	}
	if err := requiredLeaf(o, "storage", &out.Storage); err != nil {
		return err
	}
	if out.MimeType, err = optionalLeaf[string](o, "mimeType"); err != nil {
		return err
	}
	if out.ByteLength, err = optionalLeaf[uint64](o, "byteLength"); err != nil {
		return err
	}
	if out.URI, err = optionalLeaf[string](o, "uri"); err != nil {
		return err
	}
	if image, ok := o.lookup("image"); ok {
		out.Image = new(Image)
		if err := decodeImage(o.child("image"), image, out.Image); err != nil {
			return err
		}
	}
	*res = out
	return nil
}

func decodeImage(path string, raw []byte, im *Image) error {
	o, err := parseObject(path, raw)
	if err != nil {
		return err
	}
	var out Image
	if err := requiredLeaf(o, "width", &out.Width); err != nil {
		return err
	}
	if err := requiredLeaf(o, "height", &out.Height); err != nil {
		return err
	}
	if out.Format, err = optionalLeaf[Format](o, "format"); err != nil {
		return err
	}
	if out.Primaries, err = optionalLeaf[Primaries](o, "primaries"); err != nil {
		return err
	}
	if out.Transfer, err = optionalLeaf[Transfer](o, "transfer"); err != nil {
		return err
	}
	if out.Bits, err = optionalLeaf[uint32](o, "bits"); err != nil {
		return err
	}
	*im = out
	return nil
}
