package view_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/theater-records/internal/notify"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

func nameRow(rec types.Record) view.Row {
	return view.Row{Cells: []view.Cell{{Text: rec.Get("name"), Default: "N/A"}}}
}

func cellTexts(t *view.Table) []string {
	var out []string
	for _, r := range t.Rows {
		out = append(out, string(r.Cells[0].HTML))
	}
	return out
}

func TestPopulateKeepsInputOrder(t *testing.T) {
	p := view.NewPage("Students")
	p.AddTable(&view.Table{ID: "student-table-body"})

	view.Populate(p, "student-table-body", []types.Record{
		{"name": "Zed"}, {"name": "Amy"}, {"name": ""},
	}, nameRow)

	tbl, ok := p.Table("student-table-body")
	require.True(t, ok)
	want := []string{"Zed", "Amy", "N/A"}
	if diff := cmp.Diff(want, cellTexts(tbl)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestPopulateReplacesRows(t *testing.T) {
	p := view.NewPage("Students")
	p.AddTable(&view.Table{ID: "t"})

	view.Populate(p, "t", []types.Record{{"name": "A"}, {"name": "B"}}, nameRow)
	view.Populate(p, "t", []types.Record{}, nameRow)

	tbl, _ := p.Table("t")
	assert.Empty(t, tbl.Rows)
}

func TestPopulateMissingTableIsIgnored(t *testing.T) {
	p := view.NewPage("Students")
	view.Populate(p, "nope", []types.Record{{"name": "A"}}, nameRow)
	assert.Empty(t, p.Tables())
}

func TestPopulateStripsMarkup(t *testing.T) {
	p := view.NewPage("Students")
	p.AddTable(&view.Table{ID: "t"})

	view.Populate(p, "t", []types.Record{{"name": `<script>alert(1)</script>Peanuts & <b>latex</b>`}}, nameRow)

	tbl, _ := p.Table("t")
	got := string(tbl.Rows[0].Cells[0].HTML)
	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "<b>")
	assert.Contains(t, got, "latex")
}

func TestSelectOption(t *testing.T) {
	opts := []view.Option{{Value: "netid", Label: "NetID"}, {Value: "lastname", Label: "Last Name"}}

	assert.Equal(t, "Last Name", view.SelectOption(opts, "lastname"))
	assert.True(t, opts[1].Selected)
	assert.False(t, opts[0].Selected)

	assert.Equal(t, "NetID", view.SelectOption(opts, "unknown"), "falls back to the first option")
	assert.True(t, opts[0].Selected)

	assert.Equal(t, "Search by Last Name", view.Placeholder("Last Name"))
	assert.Equal(t, "Search", view.Placeholder(" "))
}

func TestFormViewFillAndReset(t *testing.T) {
	fv := &view.FormView{Fields: []view.FieldView{
		{ID: "netIDInput", Value: "ABC"},
		{ID: "showID", Kind: view.KindHidden},
		{ID: "locked", Value: "keep", ReadOnly: true},
	}}

	fv.Fill(map[string]string{"showID": "S1", "missing": "x"})
	f, ok := fv.Field("showID")
	require.True(t, ok)
	assert.Equal(t, "S1", f.Value)

	fv.Errors = []string{"Error: boom"}
	fv.Reset()
	assert.Empty(t, fv.Fields[0].Value)
	assert.Equal(t, "S1", fv.Fields[1].Value)
	assert.Equal(t, "keep", fv.Fields[2].Value)
	assert.Empty(t, fv.Errors)
}

func TestRenderListPage(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)

	p := view.NewPage("Students")
	p.Notice = notify.Error("Error loading data: boom")
	p.AddTable(&view.Table{ID: "student-table-body", Headers: []string{"Name"}, Empty: "No students found"})

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, "list", p))
	html := buf.String()

	assert.Contains(t, html, "<title>Students | Theater Database</title>")
	assert.Contains(t, html, `<tbody id="student-table-body">`)
	assert.Contains(t, html, "No students found")
	assert.Contains(t, html, `class="notice notice-error" role="alert"`)
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)
	assert.Error(t, r.Page(&bytes.Buffer{}, "nope", view.NewPage("x")))
}

func TestRenderRowsFragment(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)

	p := view.NewPage("Students")
	p.AddTable(&view.Table{ID: "student-table-body", Headers: []string{"Name"}})
	view.Populate(p, "student-table-body", []types.Record{{"name": "Jane & Co"}}, nameRow)
	tbl, _ := p.Table("student-table-body")

	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, "tbody", view.RowsFragment{Table: tbl, Hint: "Search by NetID"}))
	html := buf.String()

	assert.True(t, strings.HasPrefix(html, `<tbody id="student-table-body">`))
	assert.Contains(t, html, "Jane &amp; Co")
	assert.Contains(t, html, `hx-swap-oob="true">Search by NetID</span>`)
}
