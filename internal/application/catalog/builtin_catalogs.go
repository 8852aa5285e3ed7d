package catalog

import (
	"strings"

	"github.com/catalogsync/backend/internal/domain/catalog"
)

// Remote attribute identifiers of the fixed in-process catalogs used by the
// flat descriptor form. The classification priority is fixed: size-by-text is
// checked before color, color before size-by-number.
const (
	remoteAttributeSizeText   int64 = 1
	remoteAttributeSizeNumber int64 = 2
	remoteAttributeColor      int64 = 3
)

// builtinCatalog is one fixed in-process attribute catalog
type builtinCatalog struct {
	attributeName string
	externalID    int64
	values        []builtinValue
}

// builtinValue is one curated catalog entry
type builtinValue struct {
	name       string
	code       string
	externalID int64
}

// The three curated catalogs. Value order inside each catalog fixes the value
// order of the emitted attribute line.
var (
	sizeTextCatalog = builtinCatalog{
		attributeName: "Size",
		externalID:    remoteAttributeSizeText,
		values: []builtinValue{
			{"XS", "XS", 101},
			{"S", "S", 102},
			{"M", "M", 103},
			{"L", "L", 104},
			{"XL", "XL", 105},
			{"XXL", "XXL", 106},
			{"XXXL", "XXXL", 107},
			{"Size XS", "XS", 101},
			{"Size S", "S", 102},
			{"Size M", "M", 103},
			{"Size L", "L", 104},
			{"Size XL", "XL", 105},
			{"Size XXL", "XXL", 106},
		},
	}

	colorCatalog = builtinCatalog{
		attributeName: "Color",
		externalID:    remoteAttributeColor,
		values: []builtinValue{
			{"Black", "BLK", 301},
			{"White", "WHT", 302},
			{"Red", "RED", 303},
			{"Blue", "BLU", 304},
			{"Green", "GRN", 305},
			{"Yellow", "YLW", 306},
			{"Grey", "GRY", 307},
			{"Navy", "NVY", 308},
			{"Brown", "BRN", 309},
			{"Pink", "PNK", 310},
			{"Orange", "ORN", 311},
			{"Purple", "PRP", 312},
			{"Beige", "BGE", 313},
		},
	}

	sizeNumberCatalog = builtinCatalog{
		attributeName: "Numeric Size",
		externalID:    remoteAttributeSizeNumber,
		values: []builtinValue{
			{"28", "28", 201},
			{"30", "30", 202},
			{"32", "32", 203},
			{"34", "34", 204},
			{"36", "36", 205},
			{"38", "38", 206},
			{"40", "40", 207},
			{"42", "42", 208},
			{"44", "44", 209},
			{"46", "46", 210},
		},
	}
)

// match resolves a token against the catalog (case-insensitive exact match)
func (c *builtinCatalog) match(token string) (catalog.AttributeValue, bool) {
	for _, v := range c.values {
		if strings.EqualFold(v.name, token) {
			externalID := v.externalID
			attributeExternalID := c.externalID
			return catalog.AttributeValue{
				Value:      v.name,
				Code:       v.code,
				ExternalID: &externalID,
				Attribute: catalog.Attribute{
					Name:       c.attributeName,
					ExternalID: &attributeExternalID,
				},
			}, true
		}
	}
	return catalog.AttributeValue{}, false
}

// newLine creates an attribute line for this catalog with the given values
func (c *builtinCatalog) newLine(values []catalog.AttributeValue) catalog.AttributeLine {
	return catalog.AttributeLine{
		AttributeName: c.attributeName,
		ExternalID:    c.externalID,
		Values:        values,
	}
}
