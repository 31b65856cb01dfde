package etl

import (
	"testing"

	"patronpipe/internal/config"
	"patronpipe/internal/model"
)

func testPipeline(mapping model.TagMapping) *Pipeline {
	return New(Config{
		TagMapping:       mapping,
		NonCompanyValues: config.DefaultNonCompanyValues,
	})
}

func TestPipeline_Classify(t *testing.T) {
	tests := []struct {
		name        string
		constituent model.Constituent
		want        model.ConstituentType
	}{
		{
			name:        "full name is a person",
			constituent: model.Constituent{FirstName: "Amy", LastName: "Lee"},
			want:        model.TypePerson,
		},
		{
			name:        "full name with a real company is still a person",
			constituent: model.Constituent{FirstName: "Amy", LastName: "Lee", Company: "Acme"},
			want:        model.TypePerson,
		},
		{
			name:        "company only",
			constituent: model.Constituent{Company: "Acme Corp"},
			want:        model.TypeCompany,
		},
		{
			name:        "first name alone with company is a company",
			constituent: model.Constituent{FirstName: "Amy", Company: "Acme Corp"},
			want:        model.TypeCompany,
		},
		{
			name:        "placeholder company is unknown",
			constituent: model.Constituent{Company: "n/a"},
			want:        model.TypeUnknown,
		},
		{
			name:        "placeholder matching is case-insensitive",
			constituent: model.Constituent{Company: "None"},
			want:        model.TypeUnknown,
		},
		{
			name:        "free-text placeholder",
			constituent: model.Constituent{Company: "used to work here"},
			want:        model.TypeUnknown,
		},
		{
			name:        "whitespace-only names and company are unknown",
			constituent: model.Constituent{FirstName: " ", LastName: " ", Company: "  "},
			want:        model.TypeUnknown,
		},
		{
			name:        "last name alone is not a person",
			constituent: model.Constituent{LastName: "Lee"},
			want:        model.TypeUnknown,
		},
		{
			name:        "empty record",
			constituent: model.Constituent{},
			want:        model.TypeUnknown,
		},
	}

	p := testPipeline(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Classify(&tt.constituent); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}
