package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dogechain-lab/fastrlp"
)

var ErrInvalidTypeTag = errors.New("invalid type tag")

// TypeTag is the canonical string form of a Move type, such as "u64",
// "vector<u8>" or a struct with full length addresses.
type TypeTag string

func (t TypeTag) String() string {
	return string(t)
}

// IsStruct reports whether the tag names a struct type
func (t TypeTag) IsStruct() bool {
	return strings.Contains(string(t), "::") && !strings.HasPrefix(string(t), "vector<")
}

// StructTag returns the parsed form of a struct type tag
func (t TypeTag) StructTag() (*StructTag, error) {
	return ParseStructTag(string(t))
}

var primitiveTypes = map[string]struct{}{
	"bool":    {},
	"u8":      {},
	"u16":     {},
	"u32":     {},
	"u64":     {},
	"u128":    {},
	"u256":    {},
	"address": {},
	"signer":  {},
}

// StructTag names a Move struct type, with canonical type parameters
type StructTag struct {
	Address    Address
	Module     string
	Name       string
	TypeParams []TypeTag
}

// NewStructTag builds a tag without type parameters
func NewStructTag(addr Address, module, name string, params ...TypeTag) *StructTag {
	return &StructTag{
		Address:    addr,
		Module:     module,
		Name:       name,
		TypeParams: params,
	}
}

func (s *StructTag) String() string {
	var b strings.Builder

	b.WriteString(s.Address.String())
	b.WriteString("::")
	b.WriteString(s.Module)
	b.WriteString("::")
	b.WriteString(s.Name)

	if len(s.TypeParams) > 0 {
		b.WriteString("<")

		for i, p := range s.TypeParams {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(string(p))
		}

		b.WriteString(">")
	}

	return b.String()
}

func (s *StructTag) TypeTag() TypeTag {
	return TypeTag(s.String())
}

// Is matches the address, module and name, ignoring type parameters
func (s *StructTag) Is(addr Address, module, name string) bool {
	return s != nil && s.Address == addr && s.Module == module && s.Name == name
}

func (s *StructTag) Copy() *StructTag {
	if s == nil {
		return nil
	}

	c := *s
	if s.TypeParams != nil {
		c.TypeParams = append([]TypeTag(nil), s.TypeParams...)
	}

	return &c
}

func (s *StructTag) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// ParseTypeTag canonicalizes a primitive, vector or struct type
func ParseTypeTag(str string) (TypeTag, error) {
	str = strings.TrimSpace(str)

	if _, ok := primitiveTypes[str]; ok {
		return TypeTag(str), nil
	}

	if strings.HasPrefix(str, "vector<") && strings.HasSuffix(str, ">") {
		inner, err := ParseTypeTag(str[len("vector<") : len(str)-1])
		if err != nil {
			return "", err
		}

		return TypeTag("vector<" + string(inner) + ">"), nil
	}

	tag, err := ParseStructTag(str)
	if err != nil {
		return "", err
	}

	return tag.TypeTag(), nil
}

// ParseStructTag parses "addr::module::Name<P1, P2>"
func ParseStructTag(str string) (*StructTag, error) {
	str = strings.TrimSpace(str)

	head, params := str, ""

	if open := strings.Index(str, "<"); open >= 0 {
		if !strings.HasSuffix(str, ">") {
			return nil, fmt.Errorf("%w: unbalanced generics in %q", ErrInvalidTypeTag, str)
		}

		head, params = str[:open], str[open+1:len(str)-1]
	}

	parts := strings.Split(head, "::")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTypeTag, str)
	}

	addr, err := ParseAddress(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidTypeTag, str, err.Error())
	}

	tag := &StructTag{
		Address: addr,
		Module:  parts[1],
		Name:    parts[2],
	}

	if params == "" {
		return tag, nil
	}

	raw, err := splitTypeParams(params)
	if err != nil {
		return nil, err
	}

	for _, p := range raw {
		param, err := ParseTypeTag(p)
		if err != nil {
			return nil, err
		}

		tag.TypeParams = append(tag.TypeParams, param)
	}

	return tag, nil
}

// splitTypeParams splits on top level commas only
func splitTypeParams(s string) ([]string, error) {
	var (
		out   []string
		depth int
		start int
	)

	for i, c := range s {
		switch c {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced generics in %q", ErrInvalidTypeTag, s)
			}
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced generics in %q", ErrInvalidTypeTag, s)
	}

	return append(out, s[start:]), nil
}

// MustParseStructTag panics on malformed input, for constants and tests
func MustParseStructTag(str string) *StructTag {
	tag, err := ParseStructTag(str)
	if err != nil {
		panic(err)
	}

	return tag
}

func (s *StructTag) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(s.Address.MarshalWith(ar))
	v.Set(newString(ar, s.Module))
	v.Set(newString(ar, s.Name))

	params := ar.NewArray()
	for _, p := range s.TypeParams {
		params.Set(newString(ar, string(p)))
	}

	v.Set(params)

	return v
}

func (s *StructTag) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "struct tag", 4)
	if err != nil {
		return err
	}

	if err := s.Address.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	if s.Module, err = DecodeString(elems[1]); err != nil {
		return err
	}

	if s.Name, err = DecodeString(elems[2]); err != nil {
		return err
	}

	params, err := decodeStrings(elems[3], "type params")
	if err != nil {
		return err
	}

	s.TypeParams = nil
	for _, p := range params {
		s.TypeParams = append(s.TypeParams, TypeTag(p))
	}

	return nil
}

// an optional struct tag is a list of zero or one element
func newOptionalStructTag(ar *fastrlp.Arena, s *StructTag) *fastrlp.Value {
	v := ar.NewArray()
	if s != nil {
		v.Set(s.MarshalWith(ar))
	}

	return v
}

func decodeOptionalStructTag(v *fastrlp.Value) (*StructTag, error) {
	elems, err := ElemsOf(v, "optional struct tag", -1)
	if err != nil {
		return nil, err
	}

	switch len(elems) {
	case 0:
		return nil, nil
	case 1:
		tag := &StructTag{}
		if err := tag.UnmarshalValue(elems[0]); err != nil {
			return nil, err
		}

		return tag, nil
	}

	return nil, fmt.Errorf("%w: optional struct tag has %d elements", ErrRLPDecode, len(elems))
}
