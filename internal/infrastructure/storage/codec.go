package storage

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"svw.info/changemaker/internal/domain"
)

const (
	RegisterHeader = "# Coin Register (denom,count)"
	ProductsHeader = "# Products (id,name,price,stock)"
	MetadataHeader = "# Metadata"
)

// ParseError points at the offending line of an import.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

type section int

const (
	sectionNone section = iota
	sectionRegister
	sectionProducts
	sectionMeta
)

// Parse reads the line-oriented machine state format. Blank lines and lines
// starting with "//" are skipped; rows outside a known section are ignored.
func Parse(r io.Reader) (domain.State, error) {
	st := domain.State{Register: domain.Register{}, Products: []domain.Product{}, Meta: map[string]string{}}
	sc := bufio.NewScanner(r)
	mode := sectionNone
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "# Coin Register"):
			mode = sectionRegister
			continue
		case strings.HasPrefix(line, "# Products"):
			mode = sectionProducts
			continue
		case strings.HasPrefix(line, "# Metadata"):
			mode = sectionMeta
			continue
		case strings.HasPrefix(line, "#"):
			mode = sectionNone
			continue
		}

		switch mode {
		case sectionRegister:
			slot, err := parseSlot(line)
			if err != nil {
				return domain.State{}, &ParseError{Line: n, Msg: err.Error()}
			}
			st.Register = append(st.Register, slot)
		case sectionProducts:
			p, err := parseProduct(line)
			if err != nil {
				return domain.State{}, &ParseError{Line: n, Msg: err.Error()}
			}
			st.Products = append(st.Products, p)
		case sectionMeta:
			k, v, ok := strings.Cut(line, "=")
			if !ok || strings.TrimSpace(k) == "" {
				return domain.State{}, &ParseError{Line: n, Msg: fmt.Sprintf("metadata %q is not key=value", line)}
			}
			st.Meta[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	if err := sc.Err(); err != nil {
		return domain.State{}, err
	}
	return st, nil
}

func parseSlot(line string) (domain.CoinSlot, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return domain.CoinSlot{}, fmt.Errorf("register row %q wants denom,count", line)
	}
	denom, err := nonNegative(fields[0])
	if err != nil {
		return domain.CoinSlot{}, fmt.Errorf("denom: %w", err)
	}
	count, err := nonNegative(fields[1])
	if err != nil {
		return domain.CoinSlot{}, fmt.Errorf("count: %w", err)
	}
	return domain.CoinSlot{Denom: denom, Count: count}, nil
}

// parseProduct takes id first and price,stock last, so names may hold commas.
func parseProduct(line string) (domain.Product, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 4 {
		return domain.Product{}, fmt.Errorf("product row %q wants id,name,price,stock", line)
	}
	last := len(fields) - 1
	price, err := nonNegative(fields[last-1])
	if err != nil {
		return domain.Product{}, fmt.Errorf("price: %w", err)
	}
	stock, err := nonNegative(fields[last])
	if err != nil {
		return domain.Product{}, fmt.Errorf("stock: %w", err)
	}
	p := domain.Product{
		ID:    strings.TrimSpace(fields[0]),
		Name:  strings.TrimSpace(strings.Join(fields[1:last-1], ",")),
		Price: price,
		Stock: stock,
	}
	if p.ID == "" || p.Name == "" {
		return domain.Product{}, fmt.Errorf("product row %q has empty id or name", line)
	}
	return p, nil
}

func nonNegative(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%d is negative", v)
	}
	return v, nil
}

// Format writes st in the format Parse reads. Metadata always carries
// rounding and version; other keys follow in sorted order.
func Format(w io.Writer, st domain.State) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, RegisterHeader)
	for _, c := range st.Register {
		fmt.Fprintf(bw, "%d,%d\n", c.Denom, c.Count)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, ProductsHeader)
	for _, p := range st.Products {
		fmt.Fprintf(bw, "%s,%s,%d,%d\n", p.ID, p.Name, p.Price, p.Stock)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, MetadataHeader)

	meta := map[string]string{"rounding": "nearest5", "version": "1"}
	for k, v := range st.Meta {
		meta[k] = v
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(bw, "%s=%s\n", k, meta[k])
	}
	return bw.Flush()
}
