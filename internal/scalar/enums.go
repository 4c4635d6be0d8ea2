package scalar

import "fmt"

// FormType tags which of the five form variants a record holds.
type FormType uint8

const (
	FormTypeString     FormType = 0
	FormTypeWorld      FormType = 1
	FormTypeRefGroup   FormType = 2
	FormTypeWorldPart  FormType = 3
	FormTypeWeather    FormType = 4
)

// ByteCountFormType is the fixed on-disk width of a FormType.
const ByteCountFormType = 1

func (t FormType) String() string {
	switch t {
	case FormTypeString:
		return "STRING"
	case FormTypeWorld:
		return "WORLD"
	case FormTypeRefGroup:
		return "REFGROUP"
	case FormTypeWorldPart:
		return "WORLDPART"
	case FormTypeWeather:
		return "WEATHER"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

func (t FormType) Byte() byte { return byte(t) }

// FormTypeFromByte decodes a FormType tag. An unrecognized tag is not
// rejected here — the form decoder is responsible for treating it as a
// fatal decode error, since this function has no stream to report an
// error against.
func FormTypeFromByte(b byte) FormType { return FormType(b) }

// Valid reports whether t is one of the five known form type tags.
func (t FormType) Valid() bool {
	switch t {
	case FormTypeString, FormTypeWorld, FormTypeRefGroup, FormTypeWorldPart, FormTypeWeather:
		return true
	default:
		return false
	}
}

// LangCode tags the language of a localized string.
type LangCode uint8

const (
	LangEN LangCode = 1
	LangFR LangCode = 2
	LangES LangCode = 3
	LangDE LangCode = 4
)

// ByteCountLangCode is the fixed on-disk width of a LangCode.
const ByteCountLangCode = 1

func (l LangCode) String() string {
	switch l {
	case LangEN:
		return "EN"
	case LangFR:
		return "FR"
	case LangES:
		return "ES"
	case LangDE:
		return "DE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(l))
	}
}

func (l LangCode) Byte() byte { return byte(l) }

func LangCodeFromByte(b byte) LangCode { return LangCode(b) }
