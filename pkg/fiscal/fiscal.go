// Package fiscal valida identificadores fiscales españoles: NIF, NIE y CIF.
// La validación es pura y nunca devuelve error; el resultado describe qué
// se reconoció y, si no es válido, por qué.
package fiscal

import "strings"

// Tipos de identificador reconocidos.
const (
	KindNIF     = "NIF"
	KindNIE     = "NIE"
	KindCIF     = "CIF"
	KindUnknown = "UNKNOWN"
)

// Letras de control del NIF/NIE, indexadas por número módulo 23.
const nifLetters = "TRWAGMYFPDXBNJZSQVHLCKEO"

// Letras de control del CIF, indexadas por dígito de control.
const cifLetters = "JABCDEFGHIJ"

// Letras de organización válidas en la primera posición de un CIF.
const cifOrgLetters = "ABCDEFGHJKLMNPQRSUVW"

// Identity resultado de validar un identificador fiscal.
type Identity struct {
	Raw        string // tal como llegó
	Normalized string // mayúsculas, sin espacios ni separadores
	Kind       string // NIF | NIE | CIF | UNKNOWN
	Valid      bool
	Reason     string // vacío cuando Valid
}

// Validate normaliza y valida un identificador fiscal español. Clasifica
// por forma (NIF, NIE o CIF) y verifica el carácter de control que
// corresponda. Nunca devuelve error: un identificador irreconocible
// produce Kind UNKNOWN con el motivo.
func Validate(raw string) Identity {
	id := Identity{Raw: raw, Normalized: normalize(raw), Kind: KindUnknown}

	if id.Normalized == "" {
		id.Reason = "requerido"
		return id
	}

	switch {
	case isNIFShape(id.Normalized):
		id.Kind = KindNIF
		id.Valid, id.Reason = checkNIF(id.Normalized)
	case isNIEShape(id.Normalized):
		id.Kind = KindNIE
		id.Valid, id.Reason = checkNIE(id.Normalized)
	case isCIFShape(id.Normalized):
		id.Kind = KindCIF
		id.Valid, id.Reason = checkCIF(id.Normalized)
	default:
		id.Reason = "formato no reconocido"
	}
	return id
}

// IsValid es el atajo booleano de Validate.
func IsValid(raw string) bool {
	return Validate(raw).Valid
}

func normalize(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		switch r {
		case ' ', '-', '_', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NIF: 8 dígitos seguidos de una letra de control.
func isNIFShape(s string) bool {
	if len(s) != 9 {
		return false
	}
	return allDigits(s[:8]) && isLetter(s[8])
}

func checkNIF(s string) (bool, string) {
	number := 0
	for _, r := range s[:8] {
		number = number*10 + int(r-'0')
	}
	expected := nifLetters[number%23]
	if s[8] != expected {
		return false, "letra de control incorrecta"
	}
	return true, ""
}

// NIE: prefijo X, Y o Z, 7 dígitos y letra de control. El prefijo se
// sustituye por 0, 1 o 2 y el resto sigue la tabla del NIF.
func isNIEShape(s string) bool {
	if len(s) != 9 {
		return false
	}
	switch s[0] {
	case 'X', 'Y', 'Z':
	default:
		return false
	}
	return allDigits(s[1:8]) && isLetter(s[8])
}

func checkNIE(s string) (bool, string) {
	number := int(s[0] - 'X') // X->0, Y->1, Z->2
	for _, r := range s[1:8] {
		number = number*10 + int(r-'0')
	}
	expected := nifLetters[number%23]
	if s[8] != expected {
		return false, "letra de control incorrecta"
	}
	return true, ""
}

// CIF: letra de organización, 7 dígitos y un carácter de control que puede
// ser dígito o letra. Se acepta cualquiera de las dos representaciones del
// control, con independencia de la letra de organización.
func isCIFShape(s string) bool {
	if len(s) != 9 {
		return false
	}
	if !strings.ContainsRune(cifOrgLetters, rune(s[0])) {
		return false
	}
	last := s[8]
	return allDigits(s[1:8]) && (isDigit(last) || isLetter(last))
}

func checkCIF(s string) (bool, string) {
	sum := 0
	for i := 1; i <= 7; i++ {
		d := int(s[i] - '0')
		if i%2 == 1 {
			// Posiciones impares (1ª, 3ª, 5ª, 7ª de los dígitos):
			// se duplica y se suman los dígitos del resultado.
			d *= 2
			d = d/10 + d%10
		}
		sum += d
	}
	check := (10 - sum%10) % 10

	last := s[8]
	if isDigit(last) {
		if int(last-'0') != check {
			return false, "dígito de control incorrecto"
		}
		return true, ""
	}
	if last != cifLetters[check] {
		return false, "letra de control incorrecta"
	}
	return true, ""
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isLetter(b byte) bool { return b >= 'A' && b <= 'Z' }
