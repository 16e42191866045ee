package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"catalog_portal/internal/client/catalog"
	"catalog_portal/internal/domain/model"
)

func displayName(u model.UserSnapshot) string {
	if full := strings.TrimSpace(u.Name + " " + u.LastName); full != "" {
		return full
	}
	return u.Username
}

func printUser(w io.Writer, u model.UserSnapshot) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Username\t%s\n", u.Username)
	fmt.Fprintf(tw, "Name\t%s\n", u.Name)
	fmt.Fprintf(tw, "Last Name\t%s\n", u.LastName)
	fmt.Fprintf(tw, "Email\t%s\n", u.Email)
	fmt.Fprintf(tw, "User Type\t%s\n", u.UserType)
	if !u.CreateDate.IsZero() {
		fmt.Fprintf(tw, "Create Date\t%s\n", u.CreateDate.Local().Format(time.DateTime))
	}
	tw.Flush()
}

func printTable(w io.Writer, t *catalog.Table) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tId del producto\tMarca\tTitulo de producto\tItems")
	for _, p := range t.PageItems() {
		mark := "[ ]"
		if t.IsSelected(p.ProductID) {
			mark = "[x]"
		}
		ids := make([]string, 0, len(p.Items))
		for _, it := range p.Items {
			ids = append(ids, it.ItemID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, p.ProductID, p.Brand, p.ProductTitle, strings.Join(ids, " "))
	}
	tw.Flush()

	if t.PageCount() > 1 {
		pages := make([]string, 0, 5)
		for _, n := range t.PageWindow() {
			if n == t.Page() {
				pages = append(pages, fmt.Sprintf("[%d]", n))
			} else {
				pages = append(pages, fmt.Sprint(n))
			}
		}
		fmt.Fprintf(w, "%s  %s\n", t.RangeLabel(), strings.Join(pages, " "))
	}
	fmt.Fprintf(w, "Exportar CSV (%d)\n", t.SelectedCount())
}

func printProduct(w io.Writer, p catalog.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", p.ProductName)
	fmt.Fprintf(tw, "Id\t%s\n", p.ProductID)
	fmt.Fprintf(tw, "Marca\t%s\n", p.Brand)
	fmt.Fprintf(tw, "Título\t%s\n", p.ProductTitle)
	fmt.Fprintf(tw, "Categorías\t%s\n", strings.Join(p.Categories, ", "))
	fmt.Fprintf(tw, "Color\t%s\n", strings.Join(p.Color, ", "))
	fmt.Fprintf(tw, "Género\t%s\n", strings.Join(p.Gender, ", "))
	fmt.Fprintf(tw, "Línea\t%s\n", strings.Join(p.Line, ", "))
	if p.ReleaseDate != "" {
		fmt.Fprintf(tw, "Lanzamiento\t%s\n", p.ReleaseDate)
	}
	if len(p.Care) > 0 {
		fmt.Fprintf(tw, "Cuidados\t%s\n", strings.Join(p.Care, "; "))
	}
	if len(p.Origin) > 0 {
		fmt.Fprintf(tw, "Origen\t%s\n", strings.Join(p.Origin, "; "))
	}
	fmt.Fprintf(tw, "Link\t%s\n", p.Link)
	tw.Flush()
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
}
