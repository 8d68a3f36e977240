package report_test

import (
	"reflect"
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/gltf-validator/internal/domain/report"
)

func optionalOf[T any](g gopter.Gen) gopter.Gen {
	return gopter.CombineGens(gen.Bool(), g).Map(func(vals []interface{}) *T {
		if !vals[0].(bool) {
			return nil
		}
		v := vals[1].(T)
		return &v
	})
}

func optionalSliceOf[T any](g gopter.Gen) gopter.Gen {
	return gopter.CombineGens(gen.Bool(), gen.SliceOf(g)).Map(func(vals []interface{}) []T {
		if !vals[0].(bool) {
			return nil
		}
		return vals[1].([]T)
	})
}

func messageGen() gopter.Gen {
	return gopter.CombineGens(
		gen.Identifier(),
		gen.OneConstOf(report.SeverityError, report.SeverityWarning, report.SeverityInformation, report.SeverityHint),
		optionalOf[string](gen.AlphaString()),
		optionalOf[uint32](gen.UInt32()),
		gen.UnicodeString(unicode.Greek),
	).Map(func(vals []interface{}) report.Message {
		return report.Message{
			Code:     vals[0].(string),
			Severity: vals[1].(report.Severity),
			Pointer:  vals[2].(*string),
			Offset:   vals[3].(*uint32),
			Message:  vals[4].(string),
		}
	})
}

func imageGen() gopter.Gen {
	return gopter.CombineGens(
		gen.UInt32(),
		gen.UInt32(),
		optionalOf[report.Format](gen.OneConstOf(report.FormatRGB, report.FormatRGBA, report.FormatLuminance, report.FormatLuminanceAlpha)),
		optionalOf[report.Primaries](gen.OneConstOf(report.PrimariesSRGB, report.PrimariesCustom)),
		optionalOf[report.Transfer](gen.OneConstOf(report.TransferLinear, report.TransferSRGB, report.TransferCustom)),
		optionalOf[uint32](gen.UInt32Range(1, 32)),
	).Map(func(vals []interface{}) report.Image {
		return report.Image{
			Width:     vals[0].(uint32),
			Height:    vals[1].(uint32),
			Format:    vals[2].(*report.Format),
			Primaries: vals[3].(*report.Primaries),
			Transfer:  vals[4].(*report.Transfer),
			Bits:      vals[5].(*uint32),
		}
	})
}

func resourceGen() gopter.Gen {
	return gopter.CombineGens(
		gen.AlphaString(),
		gen.OneConstOf(report.StorageDataURI, report.StorageBufferView, report.StorageGLB, report.StorageExternal),
		optionalOf[string](gen.AlphaString()),
		optionalOf[uint64](gen.UInt64()),
		optionalOf[string](gen.AlphaString()),
		optionalOf[report.Image](imageGen()),
	).Map(func(vals []interface{}) report.Resource {
		return report.Resource{
			Pointer:    vals[0].(string),
			Storage:    vals[1].(report.Storage),
			MimeType:   vals[2].(*string),
			ByteLength: vals[3].(*uint64),
			URI:        vals[4].(*string),
			Image:      vals[5].(*report.Image),
		}
	})
}

func infoGen() gopter.Gen {
	return gopter.CombineGens(
		gen.NumString(),
		optionalOf[string](gen.NumString()),
		optionalOf[string](gen.AlphaString()),
		optionalSliceOf[string](gen.Identifier()),
		optionalSliceOf[string](gen.Identifier()),
		optionalSliceOf[report.Resource](resourceGen()),
	).Map(func(vals []interface{}) report.Info {
		return report.Info{
			Version:            vals[0].(string),
			MinVersion:         vals[1].(*string),
			Generator:          vals[2].(*string),
			ExtensionsUsed:     vals[3].([]string),
			ExtensionsRequired: vals[4].([]string),
			Resources:          vals[5].([]report.Resource),
		}
	})
}

func reportGen() gopter.Gen {
	return gopter.CombineGens(
		optionalOf[string](gen.AlphaString()),
		optionalOf[report.MimeType](gen.OneConstOf(report.MimeTypeGLTF, report.MimeTypeGLB)),
		gen.AlphaString(),
		optionalOf[string](gen.AlphaString()),
		gen.UInt32(), gen.UInt32(), gen.UInt32(), gen.UInt32(),
		gen.SliceOf(messageGen()).Map(func(msgs []report.Message) []report.Message {
			if len(msgs) == 0 {
				return nil
			}
			return msgs
		}),
		gen.Bool(),
		optionalOf[report.Info](infoGen()),
	).Map(func(vals []interface{}) *report.ValidationReport {
		return &report.ValidationReport{
			URI:              vals[0].(*string),
			MimeType:         vals[1].(*report.MimeType),
			ValidatorVersion: vals[2].(string),
			ValidatedAt:      vals[3].(*string),
			Issues: report.Issues{
				NumErrors:   vals[4].(uint32),
				NumWarnings: vals[5].(uint32),
				NumInfos:    vals[6].(uint32),
				NumHints:    vals[7].(uint32),
				Messages:    vals[8].([]report.Message),
				Truncated:   vals[9].(bool),
			},
			Info: vals[10].(*report.Info),
		}
	})
}

func TestRoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.MaxSize = 6
	properties := gopter.NewProperties(parameters)

	properties.Property("decode(encode(r)) == r", prop.ForAll(
		func(r *report.ValidationReport) bool {
			data, err := report.Encode(r)
			if err != nil {
				return false
			}
			back, err := report.Decode(data)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(r, back)
		},
		reportGen(),
	))

	properties.TestingRun(t)
}

func TestRoundTrip_FixtureIsStable(t *testing.T) {
	first, err := report.Decode(loadFixture(t, "cube_glb.json"))
	require.NoError(t, err)

	encoded, err := report.EncodeIndent(first)
	require.NoError(t, err)
	second, err := report.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	reencoded, err := report.EncodeIndent(second)
	require.NoError(t, err)
	assert.Equal(t, string(encoded), string(reencoded))
}

func TestEncode_AbsentMembersStayAbsent(t *testing.T) {
	r, err := report.Decode([]byte(unusedMaterialReport))
	require.NoError(t, err)

	data, err := report.Encode(r)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, `"info"`)
	assert.NotContains(t, out, `"uri"`)
	assert.NotContains(t, out, `"offset"`)
	assert.NotContains(t, out, "null")
	assert.Contains(t, out, `"severity":1`)
	assert.JSONEq(t, unusedMaterialReport, out)
}

func TestEncode_EmptyArraysStayPresent(t *testing.T) {
	r := &report.ValidationReport{
		ValidatorVersion: "2.0.0",
		Info:             &report.Info{Version: "2.0", ExtensionsUsed: []string{}},
	}
	data, err := report.Encode(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"extensionsUsed":[]`)
	assert.NotContains(t, string(data), `"extensionsRequired"`)
	assert.Contains(t, string(data), `"messages":[]`, "nil messages encode as an empty array")
}

func TestRoundTrip_NilMessages(t *testing.T) {
	r := &report.ValidationReport{
		ValidatorVersion: "2.0.0",
		Issues:           report.Issues{NumErrors: 2, Truncated: true},
	}
	data, err := report.Encode(r)
	require.NoError(t, err)

	back, err := report.Decode(data)
	require.NoError(t, err)
	assert.Nil(t, back.Issues.Messages)
	assert.True(t, reflect.DeepEqual(r, back))
}

func TestEncode_RejectsOutOfTableValues(t *testing.T) {
	bogusStorage := &report.ValidationReport{
		ValidatorVersion: "2.0.0",
		Info: &report.Info{
			Version:   "2.0",
			Resources: []report.Resource{{Pointer: "/buffers/0", Storage: report.Storage("tape")}},
		},
	}
	_, err := report.Encode(bogusStorage)
	assert.Error(t, err)

	bogusSeverity := &report.ValidationReport{
		ValidatorVersion: "2.0.0",
		Issues:           report.Issues{Messages: []report.Message{{Code: "C", Severity: report.Severity(9), Message: "m"}}},
	}
	_, err = report.Encode(bogusSeverity)
	assert.Error(t, err)
}
