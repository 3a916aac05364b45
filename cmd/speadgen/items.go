package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scigolib/spead/item"
)

// parseItemSpec parses one --item flag value of the form
// "id:code+bits:value", e.g. "0x1000:u48:1234567", into a scalar fallback
// Item. id and value accept Go's 0x/0/decimal integer literal syntax.
func parseItemSpec(spec string) (*item.Item, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("item %q: want id:format:value, e.g. 0x1000:u48:1234567", spec)
	}

	id, err := strconv.ParseUint(parts[0], 0, 64)
	if err != nil {
		return nil, fmt.Errorf("item %q: bad id: %w", spec, err)
	}

	if len(parts[1]) < 2 {
		return nil, fmt.Errorf("item %q: bad format field %q, want e.g. u48", spec, parts[1])
	}
	code := parts[1][0]
	bits, err := strconv.Atoi(parts[1][1:])
	if err != nil {
		return nil, fmt.Errorf("item %q: bad format width: %w", spec, err)
	}

	value, err := strconv.ParseUint(parts[2], 0, 64)
	if err != nil {
		return nil, fmt.Errorf("item %q: bad value: %w", spec, err)
	}

	name := fmt.Sprintf("item_%#x", id)

	return item.NewScalarItem(id, name, "", item.FormatField{Code: code, Bits: bits}, value)
}

// parseItemSpecs parses every --item flag value in order.
func parseItemSpecs(specs []string) ([]*item.Item, error) {
	items := make([]*item.Item, 0, len(specs))
	for _, s := range specs {
		it, err := parseItemSpec(s)
		if err != nil {
			return nil, err
		}

		items = append(items, it)
	}

	return items, nil
}
