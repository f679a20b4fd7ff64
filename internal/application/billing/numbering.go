package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatFullNumber compone el número legal visible: "SERIE-AÑO-NNNN".
// El número se rellena a cuatro dígitos pero no se trunca: el 10000 se
// imprime con cinco.
func FormatFullNumber(series string, year int, number int64) string {
	return fmt.Sprintf("%s-%d-%04d", series, year, number)
}

// ParseFullNumber descompone un número legal "SERIE-AÑO-NNNN".
func ParseFullNumber(full string) (series string, year int, number int64, err error) {
	parts := strings.Split(full, "-")
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("número legal mal formado: %q", full)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil || year < 1 {
		return "", 0, 0, fmt.Errorf("número legal mal formado: %q", full)
	}
	number, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil || number < 1 {
		return "", 0, 0, fmt.Errorf("número legal mal formado: %q", full)
	}
	return parts[0], year, number, nil
}
