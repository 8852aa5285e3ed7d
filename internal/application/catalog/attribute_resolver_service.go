package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AttributeResolverService maps free-text variant descriptors to structured
// attribute lines. Two descriptor forms are supported:
//
//   - a parenthesized, pipe-delimited list of value names, e.g.
//     "(Red | Blue | Size M)", resolved against the relational attribute
//     value lookup;
//   - a flat comma-delimited list, classified against the three fixed
//     in-process catalogs.
//
// Unmatched tokens are dropped silently; partial resolution is the contract,
// not an error. Empty input yields an empty result.
type AttributeResolverService struct {
	valueRepo catalog.AttributeValueRepository
	log       *zap.Logger
}

// NewAttributeResolverService creates a new AttributeResolverService
func NewAttributeResolverService(valueRepo catalog.AttributeValueRepository, log *zap.Logger) *AttributeResolverService {
	return &AttributeResolverService{
		valueRepo: valueRepo,
		log:       log,
	}
}

// ResolveDescriptor produces the ordered attribute lines for a descriptor
func (s *AttributeResolverService) ResolveDescriptor(ctx context.Context, descriptor string) ([]catalog.AttributeLine, error) {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return []catalog.AttributeLine{}, nil
	}

	if strings.Contains(descriptor, "(") {
		return s.resolveDelimited(ctx, descriptor)
	}
	return s.resolveFlat(descriptor), nil
}

// resolveDelimited handles the parenthesized pipe-delimited form. Each token
// is resolved against the relational lookup of active attribute values joined
// to their owning attribute; resolved values are grouped by remote attribute
// identifier in first-seen order. Values whose attribute has no remote
// identifier are excluded.
func (s *AttributeResolverService) resolveDelimited(ctx context.Context, descriptor string) ([]catalog.AttributeLine, error) {
	open := strings.Index(descriptor, "(")
	closing := strings.LastIndex(descriptor, ")")
	if closing <= open {
		closing = len(descriptor)
	}
	segment := descriptor[open+1 : closing]

	lines := make([]catalog.AttributeLine, 0)
	lineIndex := make(map[int64]int)

	for _, token := range strings.Split(segment, "|") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		value, err := s.valueRepo.FindActiveByValue(ctx, token)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.log.Debug("Descriptor token did not match any attribute value",
					zap.String("token", token))
				continue
			}
			return nil, err
		}

		remoteAttributeID := value.RemoteAttributeID()
		if remoteAttributeID == 0 {
			s.log.Debug("Attribute value has no remote mapping, excluded",
				zap.String("token", token),
				zap.String("attribute", value.Attribute.Name))
			continue
		}

		idx, seen := lineIndex[remoteAttributeID]
		if !seen {
			attributeID := value.AttributeID
			lines = append(lines, catalog.AttributeLine{
				AttributeID:   &attributeID,
				AttributeName: value.Attribute.Name,
				ExternalID:    remoteAttributeID,
				Values:        make([]catalog.AttributeValue, 0, 1),
			})
			idx = len(lines) - 1
			lineIndex[remoteAttributeID] = idx
		}
		lines[idx].Values = append(lines[idx].Values, *value)
	}

	return lines, nil
}

// resolveFlat handles the flat comma-delimited form. Each token is classified
// against the fixed catalogs in priority order: size-by-text first, then
// color, then size-by-number. The first catalog that matches claims the
// token. Lines are emitted in catalog priority order regardless of input
// token order.
func (s *AttributeResolverService) resolveFlat(descriptor string) []catalog.AttributeLine {
	// Ordered matcher list makes the classification priority explicit
	catalogs := []*builtinCatalog{&sizeTextCatalog, &colorCatalog, &sizeNumberCatalog}
	matched := make(map[*builtinCatalog][]catalog.AttributeValue, len(catalogs))

	for _, token := range strings.Split(descriptor, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		claimed := false
		for _, cat := range catalogs {
			if value, ok := cat.match(token); ok {
				matched[cat] = append(matched[cat], value)
				claimed = true
				break
			}
		}
		if !claimed {
			s.log.Debug("Descriptor token did not match any fixed catalog",
				zap.String("token", token))
		}
	}

	lines := make([]catalog.AttributeLine, 0, len(catalogs))
	for _, cat := range catalogs {
		if values := matched[cat]; len(values) > 0 {
			lines = append(lines, cat.newLine(values))
		}
	}
	return lines
}
