package docconv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/docconv"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		text string
		want []string
	}{
		"blank lines dropped": {text: "a\n\n  \nb", want: []string{"a", "b"}},
		"trimmed":             {text: "  line one \t", want: []string{"line one"}},
		"crlf":                {text: "one\r\ntwo\r\n", want: []string{"one", "two"}},
		"bare cr":             {text: "one\rtwo", want: []string{"one", "two"}},
		"mixed":               {text: "a\r\n\rb\nc\r", want: []string{"a", "b", "c"}},
		"interior space kept": {text: "a  b", want: []string{"a  b"}},
		"empty":               {text: "", want: nil},
		"whitespace only":     {text: " \n\t\r\n", want: nil},
		"order preserved":     {text: "z\ny\nx", want: []string{"z", "y", "x"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rs := docconv.Normalize(tt.text)
			assert.Equal(t, []string{docconv.TextField}, rs.Fields)
			var got []string
			for _, r := range rs.Records {
				assert.Equal(t, []string{docconv.TextField}, r.Names())
				v, _ := r.Get(docconv.TextField)
				got = append(got, v)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	first := docconv.Normalize("  alpha\r\n\r\nbeta \n\tgamma\t\n")
	var joined string
	for i, r := range first.Records {
		if i > 0 {
			joined += "\n"
		}
		v, _ := r.Get(docconv.TextField)
		joined += v
	}
	assert.Equal(t, first, docconv.Normalize(joined))
}

func TestExtractionRecordSet(t *testing.T) {
	t.Parallel()
	textual := docconv.TextualExtraction("one\n\ntwo")
	assert.Equal(t, docconv.Textual, textual.Kind)
	assert.Equal(t, docconv.Normalize("one\n\ntwo"), textual.RecordSet())

	records := []docconv.Record{rec("a", "1")}
	tabular := docconv.TabularExtraction([]string{"a"}, records)
	assert.Equal(t, docconv.Tabular, tabular.Kind)
	assert.Equal(t, docconv.RecordSet{Fields: []string{"a"}, Records: records}, tabular.RecordSet())

	assert.Equal(t, "tabular", docconv.Tabular.String())
	assert.Equal(t, "textual", docconv.Textual.String())
}
