package email

import (
	"fmt"
	"net/mail"
	"strings"
)

// Addr is a parsed email address with an optional display name.
type Addr struct {
	Name    string
	Address string
}

// ParseAddr parses a single RFC 5322 address, accepting both bare
// addr-spec and name-addr forms.
func ParseAddr(s string) (Addr, error) {
	parsed, err := mail.ParseAddress(s)
	if err != nil {
		return Addr{}, fmt.Errorf("email: parsing address %q: %w", s, err)
	}
	return Addr{Name: parsed.Name, Address: parsed.Address}, nil
}

// ParseAddrList parses each entry of a recipient list.
func ParseAddrList(list []string) ([]Addr, error) {
	addrs := make([]Addr, 0, len(list))
	for _, s := range list {
		addr, err := ParseAddr(s)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// String formats the address in name-addr form, quoting the display
// name when RFC 5322 requires it.
func (a Addr) String() string {
	if a.Name == "" {
		return a.Address
	}
	return (&mail.Address{Name: a.Name, Address: a.Address}).String()
}

// QEncodeWord returns s as a single RFC 2047 Q-encoded word. Only
// letters, digits and "!*+-/" are carried literally; spaces become
// underscores and every other byte is hex-escaped. Some provider
// address parsers mishandle quoted display names containing commas or
// angle brackets, and an encoded word sidesteps that.
func QEncodeWord(s string) string {
	var sb strings.Builder
	sb.WriteString("=?utf-8?q?")
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b == ' ':
			sb.WriteByte('_')
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9',
			b == '!', b == '*', b == '+', b == '-', b == '/':
			sb.WriteByte(b)
		default:
			fmt.Fprintf(&sb, "=%02X", b)
		}
	}
	sb.WriteString("?=")
	return sb.String()
}
