package service

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"user-hub/internal/repository"
)

const defaultPageSize = 10

var filterOps = map[string]repository.FilterOp{
	"gt":  repository.OpGt,
	"gte": repository.OpGte,
	"lt":  repository.OpLt,
	"lte": repository.OpLte,
	"in":  repository.OpIn,
}

// parseListQuery translates raw query-string parameters into a ListQuery.
// Reserved keys search/page/limit/sort are consumed first; every remaining
// key becomes an equality filter, or a comparison filter when written as
// field[op] with op one of gt, gte, lt, lte, in.
func parseListQuery(values url.Values) (repository.ListQuery, error) {
	q := repository.ListQuery{Limit: defaultPageSize}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, validationErr("Invalid limit")
		}
		q.Limit = limit
		q.HasLimit = true
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, validationErr("Invalid page")
		}
		if page < 1 {
			page = 1
		}
		q.Page = page
		q.HasPage = true
	}

	q.Search = values.Get("search")

	if raw := values.Get("sort"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			desc := strings.HasPrefix(field, "-")
			field = strings.TrimPrefix(field, "-")
			if !repository.ListableField(field) {
				return q, validationErr(fmt.Sprintf("Cannot sort by %s", field))
			}
			q.Sort = append(q.Sort, repository.SortField{Field: field, Desc: desc})
		}
	}

	// stable filter order keeps generated SQL deterministic
	keys := make([]string, 0, len(values))
	for key := range values {
		switch key {
		case "search", "page", "limit", "sort":
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field, op, err := parseFilterKey(key)
		if err != nil {
			return q, err
		}
		if !repository.ListableField(field) {
			return q, validationErr(fmt.Sprintf("Cannot filter by %s", field))
		}

		value := values.Get(key)
		filter := repository.Filter{Field: field, Op: op, Values: []string{value}}
		if op == repository.OpIn {
			filter.Values = strings.Split(value, ",")
		}
		q.Filters = append(q.Filters, filter)
	}

	return q, nil
}

// parseFilterKey splits "age[gt]" into field and operator; a bare key is
// an equality filter.
func parseFilterKey(key string) (string, repository.FilterOp, error) {
	open := strings.Index(key, "[")
	if open < 0 {
		return key, repository.OpEq, nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", validationErr(fmt.Sprintf("Invalid filter %s", key))
	}

	field := key[:open]
	name := key[open+1 : len(key)-1]
	op, ok := filterOps[name]
	if !ok {
		return "", "", validationErr(fmt.Sprintf("Invalid filter operator %s", name))
	}
	return field, op, nil
}
