package photoinspect

import (
	"bytes"
	"strings"

	"github.com/bep/imagemeta"
)

// Provenance holds metadata fingerprints found in a photo. Empty fields
// mean nothing was detected.
type Provenance struct {
	Generator   string
	StockAgency string
}

// IsAIGenerated reports whether an AI generator signature was found.
func (p Provenance) IsAIGenerated() bool { return p.Generator != "" }

// IsStock reports whether a stock agency signature was found.
func (p Provenance) IsStock() bool { return p.StockAgency != "" }

// aiGeneratorKeywords are matched case-insensitively against software,
// creator and source fields.
var aiGeneratorKeywords = []string{
	"midjourney",
	"dall-e",
	"dall·e",
	"stable diffusion",
	"stablediffusion",
	"comfyui",
	"automatic1111",
	"novelai",
	"firefly",
	"imagen",
	"gemini",
	"leonardo.ai",
	"ideogram",
	"flux",
	"trainedalgorithmicmedia",
}

var stockAgencyKeywords = []string{
	"shutterstock",
	"gettyimages",
	"getty images",
	"istock",
	"alamy",
	"depositphotos",
	"dreamstime",
	"123rf",
	"adobestock",
	"adobe stock",
	"stocksy",
	"pond5",
	"freepik",
}

var wantedTags = map[imagemeta.Source]map[string]bool{
	imagemeta.EXIF: {
		"Software":         true,
		"Artist":           true,
		"Copyright":        true,
		"ImageDescription": true,
		"Make":             true,
	},
	imagemeta.IPTC: {
		"CopyrightNotice": true,
		"Credit":          true,
		"Byline":          true,
		"Source":          true,
	},
	imagemeta.XMP: {
		"CreatorTool":       true,
		"DigitalSourceType": true,
		"Credit":            true,
		"Rights":            true,
		"Creator":           true,
	},
}

// Inspect scans EXIF, IPTC and XMP metadata of data for provenance
// fingerprints. Unreadable metadata yields an empty Provenance.
func Inspect(data []byte, format string) Provenance {
	var p Provenance

	imgFormat, ok := metaFormat(format)
	if !ok || len(data) == 0 {
		return p
	}

	_, _ = imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: imgFormat,
		Sources:     imagemeta.EXIF | imagemeta.IPTC | imagemeta.XMP,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			if tags, ok := wantedTags[ti.Source]; ok {
				return tags[ti.Tag]
			}
			return false
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			value := strings.ToLower(tagValueString(ti.Value))
			if value == "" {
				return nil
			}
			if p.Generator == "" {
				if kw := matchKeyword(value, aiGeneratorKeywords); kw != "" {
					p.Generator = kw
				}
			}
			if p.StockAgency == "" {
				if kw := matchKeyword(value, stockAgencyKeywords); kw != "" {
					p.StockAgency = kw
				}
			}
			return nil
		},
	})

	return p
}

func metaFormat(format string) (imagemeta.ImageFormat, bool) {
	switch format {
	case "jpeg":
		return imagemeta.JPEG, true
	case "png":
		return imagemeta.PNG, true
	case "webp":
		return imagemeta.WebP, true
	}
	return 0, false
}

func matchKeyword(value string, keywords []string) string {
	for _, kw := range keywords {
		if strings.Contains(value, kw) {
			return kw
		}
	}
	return ""
}

// tagValueString extracts a string from a tag value.
// XMP values may be string or []string (from altList/seqList).
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, " ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
