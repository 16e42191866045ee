// Package catalog maps upstream catalog records and drives the product table.
package catalog

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

type Item struct {
	ItemID string
}

// Product is the flattened view of one upstream catalog record.
type Product struct {
	ProductID     string
	ProductName   string
	ProductTitle  string
	Brand         string
	BrandID       int64
	BrandImageURL string
	CategoryID    string
	Categories    []string
	Description   string
	ReleaseDate   string
	Color         []string
	Gender        []string
	Line          []string
	Items         []Item
	// ItemsImages holds the image URLs of the first item only.
	ItemsImages []string
	Care        []string
	Origin      []string
	Link        string
}

var errNotJSON = errors.New("catalog payload is not valid JSON")

// MapProducts maps an upstream array of catalog records.
func MapProducts(raw []byte) ([]Product, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errNotJSON
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return nil, fmt.Errorf("catalog payload is %s, want array", doc.Type)
	}
	records := doc.Array()
	out := make([]Product, 0, len(records))
	for _, rec := range records {
		out = append(out, mapProduct(rec))
	}
	return out, nil
}

// MapProduct maps a single upstream record, as served for one product id.
func MapProduct(raw []byte) (Product, error) {
	if !gjson.ValidBytes(raw) {
		return Product{}, errNotJSON
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Product{}, fmt.Errorf("product payload is %s, want object", doc.Type)
	}
	return mapProduct(doc), nil
}

func mapProduct(rec gjson.Result) Product {
	p := Product{
		ProductID:     rec.Get("productId").String(),
		ProductName:   rec.Get("productName").String(),
		ProductTitle:  rec.Get("productTitle").String(),
		Brand:         rec.Get("brand").String(),
		BrandID:       rec.Get("brandId").Int(),
		BrandImageURL: rec.Get("brandImageUrl").String(),
		CategoryID:    rec.Get("categoryId").String(),
		Categories:    stringList(rec.Get("categories")),
		Description:   rec.Get("description").String(),
		ReleaseDate:   rec.Get("releaseDate").String(),
		Color:         stringList(rec.Get("Color")),
		Gender:        stringList(rec.Get("Género")),
		Line:          stringList(rec.Get("linea")),
		Items:         []Item{},
		ItemsImages:   []string{},
		Care:          stringList(rec.Get("cuidados")),
		Origin:        stringList(rec.Get("origen")),
		Link:          rec.Get("link").String(),
	}
	if p.ProductTitle == "" {
		p.ProductTitle = p.ProductName
	}

	items := rec.Get("items").Array()
	for _, it := range items {
		p.Items = append(p.Items, Item{ItemID: it.Get("itemId").String()})
	}
	if len(items) > 0 {
		for _, img := range items[0].Get("images").Array() {
			p.ItemsImages = append(p.ItemsImages, img.Get("imageUrl").String())
		}
	}
	return p
}

// stringList returns the array values of r, or an empty list for anything else.
func stringList(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}
