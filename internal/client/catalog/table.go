package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gosimple/slug"
)

const PageSize = 5

const (
	MsgLoadFailed        = "Error al cargar los productos"
	MsgSelectionRequired = "Selecciona al menos un producto para exportar"
)

// ErrEmptySelection is returned by Export when nothing is selected.
var ErrEmptySelection = errors.New(MsgSelectionRequired)

// Source provides the raw catalog payload.
type Source interface {
	Products(ctx context.Context) ([]byte, error)
}

// Table holds the product list together with its search, page and selection state.
// Pages are 1-based. The zero value is not usable; call NewTable.
type Table struct {
	all      []Product
	filtered []Product
	search   string
	page     int
	selected map[string]struct{}

	// Err is the user-visible load error, empty after a successful fetch.
	Err string
}

func NewTable() *Table {
	return &Table{page: 1, selected: map[string]struct{}{}}
}

// Fetch loads the catalog once. On failure the list is left empty and Err is set.
func (t *Table) Fetch(ctx context.Context, src Source) error {
	raw, err := src.Products(ctx)
	if err == nil {
		var products []Product
		if products, err = MapProducts(raw); err == nil {
			t.Err = ""
			t.SetProducts(products)
			return nil
		}
	}
	t.Err = MsgLoadFailed
	t.SetProducts(nil)
	return fmt.Errorf("fetch products: %w", err)
}

func (t *Table) SetProducts(products []Product) {
	t.all = products
	t.refilter()
}

func (t *Table) SetSearch(term string) {
	t.search = term
	t.refilter()
}

func (t *Table) Search() string { return t.search }

// refilter recomputes the filtered list and always returns to page 1.
func (t *Table) refilter() {
	term := strings.ToLower(t.search)
	t.filtered = make([]Product, 0, len(t.all))
	for _, p := range t.all {
		if strings.Contains(strings.ToLower(p.ProductName), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) ||
			strings.Contains(p.ProductID, t.search) ||
			strings.Contains(strings.ToLower(p.ProductTitle), term) {
			t.filtered = append(t.filtered, p)
		}
	}
	t.page = 1
}

func (t *Table) Products() []Product { return t.all }
func (t *Table) Filtered() []Product { return t.filtered }
func (t *Table) Page() int           { return t.page }

func (t *Table) PageCount() int {
	return (len(t.filtered) + PageSize - 1) / PageSize
}

func (t *Table) PageItems() []Product {
	start := (t.page - 1) * PageSize
	if start >= len(t.filtered) {
		return nil
	}
	end := start + PageSize
	if end > len(t.filtered) {
		end = len(t.filtered)
	}
	return t.filtered[start:end]
}

// GoTo moves to page n clamped to [1, PageCount]. With no pages it does nothing.
func (t *Table) GoTo(n int) {
	pc := t.PageCount()
	if pc == 0 {
		return
	}
	if n < 1 {
		n = 1
	}
	if n > pc {
		n = pc
	}
	t.page = n
}

func (t *Table) First() { t.GoTo(1) }
func (t *Table) Prev()  { t.GoTo(t.page - 1) }
func (t *Table) Next()  { t.GoTo(t.page + 1) }
func (t *Table) Last()  { t.GoTo(t.PageCount()) }

// PageWindow lists up to five page numbers around the current page.
func (t *Table) PageWindow() []int {
	pc := t.PageCount()
	n := min(5, pc)
	start := max(1, min(pc-4, t.page-2))
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start+i)
	}
	return out
}

// Range returns the 1-based positions shown on the current page and the filtered total.
func (t *Table) Range() (first, last, total int) {
	total = len(t.filtered)
	if total == 0 {
		return 0, 0, 0
	}
	first = (t.page-1)*PageSize + 1
	last = min(t.page*PageSize, total)
	return first, last, total
}

func (t *Table) RangeLabel() string {
	first, last, total := t.Range()
	return fmt.Sprintf("Mostrando %d - %d de %d productos", first, last, total)
}

func (t *Table) Toggle(id string) {
	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
		return
	}
	t.selected[id] = struct{}{}
}

// ToggleSelectAllOnPage selects every row on the current page, or clears
// them when all are already selected. Other pages are untouched.
func (t *Table) ToggleSelectAllOnPage() {
	items := t.PageItems()
	if len(items) == 0 {
		return
	}
	all := true
	for _, p := range items {
		if !t.IsSelected(p.ProductID) {
			all = false
			break
		}
	}
	for _, p := range items {
		if all {
			delete(t.selected, p.ProductID)
		} else {
			t.selected[p.ProductID] = struct{}{}
		}
	}
}

func (t *Table) IsSelected(id string) bool {
	_, ok := t.selected[id]
	return ok
}

func (t *Table) SelectedCount() int { return len(t.selected) }

// Selected returns the selected products in catalog order, ignoring search and page.
func (t *Table) Selected() []Product {
	var out []Product
	for _, p := range t.all {
		if t.IsSelected(p.ProductID) {
			out = append(out, p)
		}
	}
	return out
}

var csvHeader = []string{"ProductId", "Brand", "ProductTitle", "Items", "Images", "Color", "Gender", "Category"}

// Export writes the selected products as CSV. Quoted cells are not escaped.
func (t *Table) Export(w io.Writer) error {
	selected := t.Selected()
	if len(selected) == 0 {
		return ErrEmptySelection
	}

	lines := make([]string, 0, len(selected)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, p := range selected {
		itemIDs := make([]string, 0, len(p.Items))
		for _, it := range p.Items {
			itemIDs = append(itemIDs, it.ItemID)
		}
		lines = append(lines, strings.Join([]string{
			p.ProductID,
			p.Brand,
			quote(p.ProductTitle),
			quote(strings.Join(itemIDs, "; ")),
			quote(strings.Join(p.ItemsImages, "; ")),
			quote(strings.Join(p.Color, "; ")),
			quote(strings.Join(p.Gender, "; ")),
			quote(strings.Join(p.Categories, "; ")),
		}, ","))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func quote(s string) string { return `"` + s + `"` }

// ExportFilename is the file name offered for an export.
func ExportFilename() string {
	return strings.ReplaceAll(slug.Make("Productos seleccionados"), "-", "_") + ".csv"
}
