// Package classify maps star-type codes to their display attributes.
package classify

import (
	"context"
	"fmt"

	"github.com/okian/hrdiagram/internal/domain/model"
)

// Star type codes carried by the dataset.
const (
	RedDwarf     model.StarType = 0
	BrownDwarf   model.StarType = 1
	WhiteDwarf   model.StarType = 2
	MainSequence model.StarType = 3
	Giant        model.StarType = 4
	Supergiant   model.StarType = 5
)

// table is keyed by code so an unmapped code fails the lookup explicitly.
var table = map[model.StarType]model.Attributes{
	RedDwarf:     {Label: "Red Dwarf", MarkerSize: 30, Color: "red"},
	BrownDwarf:   {Label: "Brown Dwarf", MarkerSize: 20, Color: "maroon"},
	WhiteDwarf:   {Label: "White Dwarf", MarkerSize: 25, Color: "green"},
	MainSequence: {Label: "Main Sequence", MarkerSize: 50, Color: "blue"},
	Giant:        {Label: "Giant", MarkerSize: 80, Color: "orange"},
	Supergiant:   {Label: "Supergiant", MarkerSize: 100, Color: "purple"},
}

// Codes returns the known star type codes in ascending order.
func Codes() []model.StarType {
	return []model.StarType{RedDwarf, BrownDwarf, WhiteDwarf, MainSequence, Giant, Supergiant}
}

// Lookup returns the attributes for code.
func Lookup(code model.StarType) (model.Attributes, error) {
	attrs, ok := table[code]
	if !ok {
		return model.Attributes{}, &UnknownStarTypeError{Row: -1, Code: int(code)}
	}
	return attrs, nil
}

// Classifier derives display attributes for every row of a dataset.
type Classifier interface {
	Classify(ctx context.Context, ds *model.Dataset) ([]model.ClassifiedStar, error)
}

// TableClassifier classifies rows with the fixed star-type table.
type TableClassifier struct{}

// NewTableClassifier creates a classifier backed by the fixed table.
func NewTableClassifier() *TableClassifier {
	return &TableClassifier{}
}

// Classify returns exactly one classified row per input row, in input order.
// The first unknown code aborts classification.
func (c *TableClassifier) Classify(ctx context.Context, ds *model.Dataset) ([]model.ClassifiedStar, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}
	out := make([]model.ClassifiedStar, 0, ds.Len())
	if ds == nil {
		return out, nil
	}
	for i, s := range ds.Stars {
		attrs, ok := table[s.StarType]
		if !ok {
			return nil, &UnknownStarTypeError{Row: i, Code: int(s.StarType)}
		}
		out = append(out, model.ClassifiedStar{Star: s, Attributes: attrs})
	}
	return out, nil
}
