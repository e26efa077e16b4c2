package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// FlexInt decodes either a JSON number or a numeric string. HTML form
// bodies send ids and quantities as strings ("2").
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
		if s == "" {
			*n = 0
			return nil
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer value %s", data)
	}
	*n = FlexInt(v)
	return nil
}

func (n FlexInt) Int() int { return int(n) }
