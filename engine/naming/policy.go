package naming

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// Policy converts a raw property name into the form used as an object key.
// Implementations never fail: names they cannot interpret pass through.
type Policy interface {
	Normalize(name string) string
	Name() string
}

const (
	PolicyCamel      = "camel"
	PolicyLowerCamel = "lower_camel"
	PolicyNone       = "none"
)

var ErrUnknownPolicy = errors.New("unknown key policy")

// ByName resolves a configured policy name. The empty name selects CamelCase.
func ByName(name string) (Policy, error) {
	switch name {
	case "", PolicyCamel:
		return CamelCase{}, nil
	case PolicyLowerCamel:
		return LowerCamel{}, nil
	case PolicyNone:
		return Identity{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// -----------------------------------------------------------------------------
// CamelCase
// -----------------------------------------------------------------------------

// CamelCase lowers the leading run of upper-case letters and leaves the rest
// of the name alone, the way JSON encoders apply a camel-case naming policy:
// UserName -> userName, ID -> id, URLValue -> urlValue, user_name -> user_name.
type CamelCase struct{}

func (CamelCase) Name() string {
	return PolicyCamel
}

func (CamelCase) Normalize(name string) string {
	first, _ := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError || !unicode.IsUpper(first) {
		return name
	}
	runes := []rune(name)
	for i := range runes {
		if i == 1 && !unicode.IsUpper(runes[i]) {
			break
		}
		hasNext := i+1 < len(runes)
		if i > 0 && hasNext && !unicode.IsUpper(runes[i+1]) {
			// "ABc" keeps the B as the start of the next word, "AB c" does not
			if runes[i+1] == ' ' {
				runes[i] = unicode.ToLower(runes[i])
			}
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// -----------------------------------------------------------------------------
// LowerCamel
// -----------------------------------------------------------------------------

// LowerCamel re-splits words on separators and case changes before joining
// them in lower camel case: user_name -> userName, Content-Type -> contentType.
type LowerCamel struct{}

func (LowerCamel) Name() string {
	return PolicyLowerCamel
}

func (LowerCamel) Normalize(name string) string {
	if name == "" {
		return name
	}
	return strcase.ToLowerCamel(name)
}

// -----------------------------------------------------------------------------
// Identity
// -----------------------------------------------------------------------------

type Identity struct{}

func (Identity) Name() string {
	return PolicyNone
}

func (Identity) Normalize(name string) string {
	return name
}
