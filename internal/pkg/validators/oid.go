package validators

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DottedOIDValidation validates a dotted-decimal object identifier such as 1.2.840.113549.
func DottedOIDValidation(fl validator.FieldLevel) bool {
	return IsDottedOID(fl.Field().String())
}

// IsDottedOID reports whether s is a well-formed dotted-decimal OID: at least two arcs, first arc 0-2,
// second arc below 40 under roots 0 and 1, no empty arcs and no leading zeros.
func IsDottedOID(s string) bool {
	arcs := strings.Split(s, ".")
	if len(arcs) < 2 {
		return false
	}

	for i, arc := range arcs {
		if arc == "" || (len(arc) > 1 && arc[0] == '0') {
			return false
		}
		for _, r := range arc {
			if r < '0' || r > '9' {
				return false
			}
		}
		n, err := strconv.ParseUint(arc, 10, 64)
		if err != nil {
			return false
		}
		switch i {
		case 0:
			if n > 2 {
				return false
			}
		case 1:
			if arcs[0] != "2" && n >= 40 {
				return false
			}
		}
	}
	return true
}
