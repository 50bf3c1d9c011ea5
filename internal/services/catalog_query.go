// internal/services/catalog_query.go
package services

import (
	"strings"
)

type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortRating     SortKey = "rating"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortNameAsc    SortKey = "name_asc"
	SortNameDesc   SortKey = "name_desc"
)

// ParseSortKey maps a request value onto a known key; anything else sorts
// by popularity.
func ParseSortKey(raw string) SortKey {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case SortRating, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return key
	default:
		return SortPopularity
	}
}

type NoteMatch string

const (
	NoteMatchAll NoteMatch = "all"
	NoteMatchAny NoteMatch = "any"
)

func ParseNoteMatch(raw string) NoteMatch {
	if strings.EqualFold(strings.TrimSpace(raw), string(NoteMatchAny)) {
		return NoteMatchAny
	}
	return NoteMatchAll
}

// ListParams is the declarative listing request. A zero Limit returns every
// matching row.
type ListParams struct {
	Search    string
	Notes     []string
	NoteMatch NoteMatch
	Sort      SortKey
	Limit     int
	Offset    int
}

// Aggregates are computed once per fragrance in derived tables and LEFT
// JOINed, so a fragrance without reviews has a NULL rating and popularity 0,
// and one without prices has a NULL price. List and detail share them.
const (
	ratingAggregate = `LEFT JOIN (SELECT fragrance_id, ROUND(AVG(rating), 2) AS rating, COUNT(*) AS popularity ` +
		`FROM reviews GROUP BY fragrance_id) rs ON rs.fragrance_id = f.id`
	priceAggregate = `LEFT JOIN (SELECT d.fragrance_id, MIN(p.amount) AS price ` +
		`FROM prices p JOIN details d ON d.id = p.detail_id GROUP BY d.fragrance_id) ps ON ps.fragrance_id = f.id`
	houseJoin = `LEFT JOIN houses h ON h.id = f.house_id`

	summaryColumns = `f.id, f.name, h.name AS house, rs.rating AS rating, ` +
		`COALESCE(rs.popularity, 0) AS popularity, ps.price AS price`
)

// Detail view lookups. Each takes the fragrance id as its only argument.
const (
	detailBaseQuery = `SELECT ` + summaryColumns + `, f.release_date, f.description ` +
		`FROM fragrances f ` + houseJoin + ` ` + ratingAggregate + ` ` + priceAggregate + ` ` +
		`WHERE f.id = ?`

	detailNotesQuery = `SELECT n.note_name, n.type FROM notes n ` +
		`JOIN fragrance_notes fn ON fn.note_id = n.id ` +
		`WHERE fn.fragrance_id = ? ORDER BY n.type, n.note_name`

	detailPerfumersQuery = `SELECT p.id, p.first_name, p.last_name FROM perfumers p ` +
		`JOIN fragrance_perfumers fp ON fp.perfumer_id = p.id ` +
		`WHERE fp.fragrance_id = ? ORDER BY p.id`

	detailPricesQuery = `SELECT p.price_id, p.amount, p.currency, r.retail_name, d.size FROM prices p ` +
		`JOIN details d ON d.id = p.detail_id ` +
		`LEFT JOIN retailers r ON r.id = p.retailer_id ` +
		`WHERE d.fragrance_id = ? ORDER BY p.amount, p.price_id`

	notesQuery = `SELECT DISTINCT note_name, type FROM notes ORDER BY type, note_name`
)

var orderClauses = map[SortKey]string{
	SortPopularity: `COALESCE(rs.popularity, 0) DESC, f.name ASC`,
	SortRating:     `CASE WHEN rs.rating IS NULL THEN 1 ELSE 0 END, rs.rating DESC, f.name ASC`,
	SortPriceAsc:   `CASE WHEN ps.price IS NULL THEN 1 ELSE 0 END, ps.price ASC, f.name ASC`,
	SortPriceDesc:  `CASE WHEN ps.price IS NULL THEN 1 ELSE 0 END, ps.price DESC, f.name ASC`,
	SortNameAsc:    `f.name ASC`,
	SortNameDesc:   `f.name DESC`,
}

// BuildListQuery assembles the listing statement. User input only ever
// travels in args; the text depends on which filters are present and how
// many notes were requested.
func BuildListQuery(p ListParams) (string, []interface{}) {
	var (
		sb   strings.Builder
		args []interface{}
	)

	sb.WriteString("SELECT ")
	sb.WriteString(summaryColumns)
	sb.WriteString(" FROM fragrances f ")
	sb.WriteString(houseJoin)

	if notes := normalizeNotes(p.Notes); len(notes) > 0 {
		sb.WriteString(" JOIN (SELECT fn.fragrance_id FROM fragrance_notes fn ")
		sb.WriteString("JOIN notes n ON n.id = fn.note_id WHERE n.note_name IN (")
		sb.WriteString(placeholders(len(notes)))
		sb.WriteString(") GROUP BY fn.fragrance_id")
		for _, n := range notes {
			args = append(args, n)
		}
		if p.NoteMatch != NoteMatchAny {
			sb.WriteString(" HAVING COUNT(DISTINCT n.id) = ?")
			args = append(args, len(notes))
		}
		sb.WriteString(") nf ON nf.fragrance_id = f.id")
	}

	sb.WriteString(" ")
	sb.WriteString(ratingAggregate)
	sb.WriteString(" ")
	sb.WriteString(priceAggregate)

	if search := strings.TrimSpace(p.Search); search != "" {
		// Both sides fold in SQL so the store decides what case means.
		pattern := "%" + escapeLike(search) + "%"
		sb.WriteString(` WHERE (LOWER(f.name) LIKE LOWER(?) ESCAPE '\' OR LOWER(h.name) LIKE LOWER(?) ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	order, ok := orderClauses[p.Sort]
	if !ok {
		order = orderClauses[SortPopularity]
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(order)
	sb.WriteString(", f.id ASC")

	if p.Limit > 0 {
		offset := p.Offset
		if offset < 0 {
			offset = 0
		}
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, p.Limit, offset)
	}

	return sb.String(), args
}

// normalizeNotes trims names and drops blanks and duplicates, keeping the
// first occurrence order.
func normalizeNotes(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
