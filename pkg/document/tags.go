package document

import "sort"

// AddTag applies the named tag over [start, end). Empty ranges are ignored.
func (b *Buffer) AddTag(tag string, start, end int) {
	r := b.clampRange(start, end)
	if r.Empty() {
		return
	}
	b.tags[tag] = append(b.tags[tag], r)
}

// RemoveTag removes the named tag from the whole document.
func (b *Buffer) RemoveTag(tag string) {
	delete(b.tags, tag)
}

// TagRanges returns the ranges carrying tag, sorted by start offset.
func (b *Buffer) TagRanges(tag string) []Range {
	src := b.tags[tag]
	if len(src) == 0 {
		return nil
	}
	out := make([]Range, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// TagsAt returns the names of the tags covering offset, sorted.
func (b *Buffer) TagsAt(offset int) []string {
	var names []string
	for name, ranges := range b.tags {
		for _, r := range ranges {
			if offset >= r.Start && offset < r.End {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// Text inserted at a tag's start is not tagged; text inserted inside is.
func (b *Buffer) shiftTagsForInsert(offset, n int) {
	for name, ranges := range b.tags {
		for i, r := range ranges {
			ranges[i] = Range{
				Start: shiftForInsert(r.Start, offset, n, true),
				End:   shiftForInsert(r.End, offset, n, false),
			}
		}
		b.tags[name] = ranges
	}
}

func (b *Buffer) shiftTagsForDelete(del Range) {
	for name, ranges := range b.tags {
		kept := ranges[:0]
		for _, r := range ranges {
			moved := Range{
				Start: shiftForDelete(r.Start, del),
				End:   shiftForDelete(r.End, del),
			}
			if !moved.Empty() {
				kept = append(kept, moved)
			}
		}
		if len(kept) == 0 {
			delete(b.tags, name)
			continue
		}
		b.tags[name] = kept
	}
}
