package core

import "github.com/proddogan-cmyk/hesapkapama-sub000/config"

// SheetRouter maps expense categories to the sheet that lists them.
type SheetRouter struct {
	exact  map[string]string
	folded map[string]string
}

// NewSheetRouter indexes every category name, alias and sheet name, both as
// written (upper-cased) and in folded form.
func NewSheetRouter(categories []config.CategoryConfig) *SheetRouter {
	r := &SheetRouter{
		exact:  make(map[string]string),
		folded: make(map[string]string),
	}
	for _, c := range categories {
		keys := append([]string{c.Name, c.Sheet}, c.Aliases...)
		for _, k := range keys {
			if e := NormalizeCategory(k); e != "" {
				r.exact[e] = c.Sheet
			}
			if f := FoldText(k); f != "" {
				r.folded[f] = c.Sheet
			}
		}
	}
	return r
}

// Route returns the sheet for category. When no entry matches, the category
// itself is returned together with an *UnmappedCategoryError so callers can
// decide whether a sheet of that literal name is acceptable.
func (r *SheetRouter) Route(category string) (string, error) {
	key := NormalizeCategory(category)
	if sheet, ok := r.exact[key]; ok {
		return sheet, nil
	}
	if sheet, ok := r.folded[FoldText(key)]; ok {
		return sheet, nil
	}
	return key, &UnmappedCategoryError{Category: key}
}
