package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProducts(n int) []Product {
	out := make([]Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Product{
			ProductID:    fmt.Sprintf("p%d", i),
			ProductName:  fmt.Sprintf("Producto %d", i),
			ProductTitle: fmt.Sprintf("Titulo %d", i),
			Brand:        "Marca",
			Items:        []Item{{ItemID: fmt.Sprintf("i%d", i)}},
			ItemsImages:  []string{},
			Color:        []string{"Rojo", "Azul"},
			Gender:       []string{},
			Categories:   []string{"/Cat/"},
		})
	}
	return out
}

func tableWith(n int) *Table {
	t := NewTable()
	t.SetProducts(makeProducts(n))
	return t
}

type fakeSource struct {
	body []byte
	err  error
}

func (f fakeSource) Products(ctx context.Context) ([]byte, error) { return f.body, f.err }

func TestToggleTwiceRestoresSelection(t *testing.T) {
	tbl := tableWith(3)
	tbl.Toggle("p2")
	before := tbl.SelectedCount()

	tbl.Toggle("p1")
	tbl.Toggle("p1")
	assert.Equal(t, before, tbl.SelectedCount())
	assert.False(t, tbl.IsSelected("p1"))
	assert.True(t, tbl.IsSelected("p2"))
}

func TestPaginationBoundaries(t *testing.T) {
	tbl := tableWith(12)
	assert.Equal(t, 3, tbl.PageCount())

	tbl.Last()
	assert.Equal(t, 3, tbl.Page())
	tbl.Next()
	assert.Equal(t, 3, tbl.Page())
	assert.Len(t, tbl.PageItems(), 2)

	tbl.First()
	assert.Equal(t, 1, tbl.Page())
	tbl.Prev()
	assert.Equal(t, 1, tbl.Page())

	tbl.GoTo(99)
	assert.Equal(t, 3, tbl.Page())
	tbl.GoTo(-4)
	assert.Equal(t, 1, tbl.Page())
}

func TestEmptyTableStaysOnPageOne(t *testing.T) {
	tbl := tableWith(0)
	assert.Equal(t, 0, tbl.PageCount())
	tbl.Next()
	tbl.Last()
	assert.Equal(t, 1, tbl.Page())
	assert.Empty(t, tbl.PageItems())
	assert.Empty(t, tbl.PageWindow())
	assert.Equal(t, "Mostrando 0 - 0 de 0 productos", tbl.RangeLabel())
}

func TestSearchResetsToFirstPage(t *testing.T) {
	for _, term := range []string{"producto", "P", "p1", "titulo 1", "MARCA", "zzz"} {
		tbl := tableWith(12)
		tbl.GoTo(3)
		tbl.SetSearch(term)
		assert.Equal(t, 1, tbl.Page(), term)
	}
}

func TestSearchMatching(t *testing.T) {
	tbl := tableWith(12)

	tbl.SetSearch("PRODUCTO 1")
	assert.Len(t, tbl.Filtered(), 4) // 1, 10, 11, 12

	tbl.SetSearch("p1")
	assert.Len(t, tbl.Filtered(), 4, "id match")

	tbl.SetSearch("P1")
	assert.Empty(t, tbl.Filtered(), "id match is case-sensitive and nothing else contains p1")

	tbl.SetSearch("")
	assert.Len(t, tbl.Filtered(), 12)
}

func TestSelectAllIsScopedToPageAndToggles(t *testing.T) {
	tbl := tableWith(12)
	tbl.Toggle("p7")

	tbl.ToggleSelectAllOnPage()
	assert.Equal(t, 6, tbl.SelectedCount())
	for i := 1; i <= 5; i++ {
		assert.True(t, tbl.IsSelected(fmt.Sprintf("p%d", i)))
	}

	tbl.ToggleSelectAllOnPage()
	assert.Equal(t, 1, tbl.SelectedCount())
	assert.True(t, tbl.IsSelected("p7"))
}

func TestSelectAll_PartialPageSelectsRest(t *testing.T) {
	tbl := tableWith(5)
	tbl.Toggle("p2")
	tbl.ToggleSelectAllOnPage()
	assert.Equal(t, 5, tbl.SelectedCount())
}

func TestExport_EmptySelection(t *testing.T) {
	tbl := tableWith(10)
	var buf strings.Builder
	err := tbl.Export(&buf)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, "Selecciona al menos un producto para exportar", err.Error())
	assert.Empty(t, buf.String())
}

func TestExport_OnlySelectedRowsRegardlessOfPage(t *testing.T) {
	tbl := tableWith(10)
	tbl.Toggle("p3")
	tbl.Toggle("p1")
	tbl.GoTo(2)
	tbl.SetSearch("Producto 7")

	var buf strings.Builder
	require.NoError(t, tbl.Export(&buf))
	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ProductId,Brand,ProductTitle,Items,Images,Color,Gender,Category", lines[0])
	assert.Equal(t, `p1,Marca,"Titulo 1","i1","","Rojo; Azul","","/Cat/"`, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "p3,"))
}

func TestExport_DoesNotEscapeEmbeddedQuotes(t *testing.T) {
	tbl := NewTable()
	tbl.SetProducts([]Product{{ProductID: "1", Brand: "A,B", ProductTitle: `Say "hi"`}})
	tbl.Toggle("1")

	var buf strings.Builder
	require.NoError(t, tbl.Export(&buf))
	assert.Equal(t, `1,A,B,"Say "hi"","","","","",""`, strings.Split(buf.String(), "\n")[1])
}

func TestPageWindowAndRange(t *testing.T) {
	tbl := tableWith(40) // 8 pages
	assert.Equal(t, []int{1, 2, 3, 4, 5}, tbl.PageWindow())

	tbl.GoTo(5)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, tbl.PageWindow())

	tbl.Last()
	assert.Equal(t, []int{4, 5, 6, 7, 8}, tbl.PageWindow())

	small := tableWith(12)
	small.Last()
	assert.Equal(t, []int{1, 2, 3}, small.PageWindow())
	assert.Equal(t, "Mostrando 11 - 12 de 12 productos", small.RangeLabel())
}

func TestFetch(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Fetch(context.Background(), fakeSource{body: []byte(`[{"productId":"1","productName":"A"}]`)}))
	assert.Empty(t, tbl.Err)
	assert.Len(t, tbl.Products(), 1)

	err := tbl.Fetch(context.Background(), fakeSource{err: errors.New("offline")})
	assert.Error(t, err)
	assert.Equal(t, MsgLoadFailed, tbl.Err)
	assert.Empty(t, tbl.Products())

	err = tbl.Fetch(context.Background(), fakeSource{body: []byte(`{"oops":true}`)})
	assert.Error(t, err)
	assert.Equal(t, "Error al cargar los productos", tbl.Err)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "productos_seleccionados.csv", ExportFilename())
}
