package pdfdoc

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/thywilljoshua/pdf-split/internal/outline"
)

// Outline returns the document's bookmarks in reading order. A document
// without bookmarks yields outline.ErrMissingOutline.
func (d *Document) Outline() ([]outline.Item, error) {
	cat, err := d.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	o, ok := cat.Find("Outlines")
	if !ok {
		return nil, outline.ErrMissingOutline
	}
	root, err := d.ctx.DereferenceDict(o)
	if err != nil {
		return nil, fmt.Errorf("outlines: %w", err)
	}
	if root == nil {
		return nil, outline.ErrMissingOutline
	}
	first, ok := root.Find("First")
	if !ok {
		return nil, outline.ErrMissingOutline
	}
	items, err := d.items(first, map[int]bool{})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, outline.ErrMissingOutline
	}
	return items, nil
}

// items follows a First/Next chain. An item reached twice ends the chain;
// the outline is not otherwise repaired.
func (d *Document) items(first types.Object, seen map[int]bool) ([]outline.Item, error) {
	var out []outline.Item
	for next := first; next != nil; {
		nr, ok := objNr(next)
		if !ok || seen[nr] {
			break
		}
		seen[nr] = true

		dict, err := d.ctx.DereferenceDict(next)
		if err != nil {
			return nil, fmt.Errorf("outline item %d: %w", nr, err)
		}
		if dict == nil {
			break
		}

		it := outline.Item{Title: d.text(dict["Title"]), Dest: d.itemDest(dict)}
		if kid, ok := dict.Find("First"); ok {
			if it.Children, err = d.items(kid, seen); err != nil {
				return nil, err
			}
		}
		out = append(out, it)

		next, _ = dict.Find("Next")
	}
	return out, nil
}

// itemDest reads /Dest, falling back to the /D of a GoTo action.
func (d *Document) itemDest(item types.Dict) outline.Destination {
	if dest, ok := item.Find("Dest"); ok {
		return d.destination(dest)
	}
	a, ok := item.Find("A")
	if !ok {
		return outline.Destination{}
	}
	action, err := d.ctx.DereferenceDict(a)
	if err != nil || action == nil {
		return outline.Destination{}
	}
	if s, ok := action.Find("S"); !ok || d.text(s) != "GoTo" {
		return outline.Destination{}
	}
	if dest, ok := action.Find("D"); ok {
		return d.destination(dest)
	}
	return outline.Destination{}
}

func (d *Document) destination(o types.Object) outline.Destination {
	o, err := d.ctx.Dereference(o)
	if err != nil || o == nil {
		return outline.Destination{}
	}
	switch v := o.(type) {
	case types.Name, types.StringLiteral, types.HexLiteral:
		return outline.Destination{Kind: outline.DestNamed, Name: d.text(v)}
	case types.Array:
		return d.explicit(v)
	case types.Dict:
		if inner, ok := v.Find("D"); ok {
			return d.destination(inner)
		}
	}
	return outline.Destination{}
}

// explicit handles [page /XYZ ...] style arrays. The page is a reference
// for local targets and an integer for remote ones.
func (d *Document) explicit(arr types.Array) outline.Destination {
	if len(arr) == 0 {
		return outline.Destination{}
	}
	if nr, ok := objNr(arr[0]); ok {
		return outline.Destination{Kind: outline.DestRef, Ref: nr}
	}
	if i, ok := arr[0].(types.Integer); ok {
		return outline.Destination{Kind: outline.DestIndex, Index: i.Value()}
	}
	return outline.Destination{}
}

// PageIndex implements outline.Lookup.
func (d *Document) PageIndex(ctx context.Context, dest outline.Destination) (int, error) {
	switch dest.Kind {
	case outline.DestRef:
		nr, _ := dest.Ref.(int)
		if p, ok := d.pageByObj[nr]; ok {
			return p - 1, nil
		}
		return 0, fmt.Errorf("%w: object %d is not a page", outline.ErrUnresolvableDestination, nr)
	case outline.DestIndex:
		return dest.Index, nil
	case outline.DestNamed:
		target, ok := d.named(dest.Name)
		if !ok {
			return 0, fmt.Errorf("%w: no destination named %q", outline.ErrUnresolvableDestination, dest.Name)
		}
		resolved := d.destination(target)
		if resolved.Kind == outline.DestNamed {
			return 0, fmt.Errorf("%w: %q names another name", outline.ErrUnresolvableDestination, dest.Name)
		}
		return d.PageIndex(ctx, resolved)
	}
	return 0, outline.ErrUnresolvableDestination
}

// named looks a destination up in the catalog's /Dests dictionary and then
// in the /Dests name tree.
func (d *Document) named(name string) (types.Object, bool) {
	cat, err := d.ctx.Catalog()
	if err != nil {
		return nil, false
	}
	if o, ok := cat.Find("Dests"); ok {
		if dests, err := d.ctx.DereferenceDict(o); err == nil && dests != nil {
			if v, ok := dests.Find(name); ok {
				return v, true
			}
		}
	}
	o, ok := cat.Find("Names")
	if !ok {
		return nil, false
	}
	names, err := d.ctx.DereferenceDict(o)
	if err != nil || names == nil {
		return nil, false
	}
	tree, ok := names.Find("Dests")
	if !ok {
		return nil, false
	}
	return d.searchNameTree(tree, name, map[int]bool{})
}

func (d *Document) searchNameTree(node types.Object, key string, seen map[int]bool) (types.Object, bool) {
	if nr, ok := objNr(node); ok {
		if seen[nr] {
			return nil, false
		}
		seen[nr] = true
	}
	dict, err := d.ctx.DereferenceDict(node)
	if err != nil || dict == nil {
		return nil, false
	}
	if o, ok := dict.Find("Names"); ok {
		arr, err := d.ctx.DereferenceArray(o)
		if err == nil {
			for i := 0; i+1 < len(arr); i += 2 {
				if d.text(arr[i]) == key {
					return arr[i+1], true
				}
			}
		}
	}
	if o, ok := dict.Find("Kids"); ok {
		kids, err := d.ctx.DereferenceArray(o)
		if err != nil {
			return nil, false
		}
		for _, k := range kids {
			if v, ok := d.searchNameTree(k, key, seen); ok {
				return v, true
			}
		}
	}
	return nil, false
}
