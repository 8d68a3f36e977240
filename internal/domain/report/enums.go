package report

import "fmt"

// EnumError reports a value outside the closed set of an enumeration.
type EnumError struct {
	Enum  string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("unknown %s value %q", e.Enum, e.Value)
}

// MimeType is the media type of a validated asset.
type MimeType string

const (
	MimeTypeGLTF MimeType = "model/gltf+json"
	MimeTypeGLB  MimeType = "model/gltf-binary"
)

// MimeTypes enumerates every valid MimeType in wire order.
var MimeTypes = []MimeType{MimeTypeGLTF, MimeTypeGLB}

// Storage describes where a resource lives.
type Storage string

const (
	StorageDataURI    Storage = "data-uri"
	StorageBufferView Storage = "buffer-view"
	StorageGLB        Storage = "glb"
	StorageExternal   Storage = "external"
)

var Storages = []Storage{StorageDataURI, StorageBufferView, StorageGLB, StorageExternal}

// Format is the channel layout of an image.
type Format string

const (
	FormatRGB            Format = "rgb"
	FormatRGBA           Format = "rgba"
	FormatLuminance      Format = "luminance"
	FormatLuminanceAlpha Format = "luminanceAlpha"
)

var Formats = []Format{FormatRGB, FormatRGBA, FormatLuminance, FormatLuminanceAlpha}

// Primaries are the color primaries of an image.
type Primaries string

const (
	PrimariesSRGB   Primaries = "srgb"
	PrimariesCustom Primaries = "custom"
)

var PrimariesValues = []Primaries{PrimariesSRGB, PrimariesCustom}

// Transfer is the transfer function of an image.
type Transfer string

const (
	TransferLinear Transfer = "linear"
	TransferSRGB   Transfer = "srgb"
	TransferCustom Transfer = "custom"
)

var Transfers = []Transfer{TransferLinear, TransferSRGB, TransferCustom}

// lookupToken matches token against the closed set. Matching is exact and
// case-sensitive.
func lookupToken[T ~string](enum string, set []T, token string) (T, error) {
	for _, v := range set {
		if string(v) == token {
			return v, nil
		}
	}
	return "", &EnumError{Enum: enum, Value: token}
}

func ParseMimeType(s string) (MimeType, error)   { return lookupToken("mimeType", MimeTypes, s) }
func ParseStorage(s string) (Storage, error)     { return lookupToken("storage", Storages, s) }
func ParseFormat(s string) (Format, error)       { return lookupToken("format", Formats, s) }
func ParsePrimaries(s string) (Primaries, error) { return lookupToken("primaries", PrimariesValues, s) }
func ParseTransfer(s string) (Transfer, error)   { return lookupToken("transfer", Transfers, s) }

func marshalToken[T ~string](enum string, set []T, v T) ([]byte, error) {
	if _, err := lookupToken(enum, set, string(v)); err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (m MimeType) MarshalText() ([]byte, error) { return marshalToken("mimeType", MimeTypes, m) }

func (m *MimeType) UnmarshalText(text []byte) (err error) {
	*m, err = ParseMimeType(string(text))
	return err
}

func (s Storage) MarshalText() ([]byte, error) { return marshalToken("storage", Storages, s) }

func (s *Storage) UnmarshalText(text []byte) (err error) {
	*s, err = ParseStorage(string(text))
	return err
}

func (f Format) MarshalText() ([]byte, error) { return marshalToken("format", Formats, f) }

func (f *Format) UnmarshalText(text []byte) (err error) {
	*f, err = ParseFormat(string(text))
	return err
}

func (p Primaries) MarshalText() ([]byte, error) {
	return marshalToken("primaries", PrimariesValues, p)
}

func (p *Primaries) UnmarshalText(text []byte) (err error) {
	*p, err = ParsePrimaries(string(text))
	return err
}

func (t Transfer) MarshalText() ([]byte, error) { return marshalToken("transfer", Transfers, t) }

func (t *Transfer) UnmarshalText(text []byte) (err error) {
	*t, err = ParseTransfer(string(text))
	return err
}
