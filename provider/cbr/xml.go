package cbr

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valuto/valuto/provider"
	"golang.org/x/text/encoding/charmap"
)

var (
	errDecodeToken       = errors.New("decoding of the markup failed")
	errAttributeNotValid = errors.New("attr is not valid")
)

// decodeXML parses the daily bulletin. Values use a comma as the fractional
// separator and are quoted per Nominal units, so the raw per-unit rate is
// Value/Nominal. Only codes in the needed set are retained; the rest count
// into Quotes.Skipped.
func decodeXML(b []byte, needed map[string]struct{}) (provider.Quotes, error) {
	quotes := provider.Quotes{
		Rates:   make(map[string]decimal.Decimal, len(needed)),
		Pivoted: true,
		Ref:     refCode,
	}

	decoder := xml.NewDecoder(bytes.NewReader(b))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch charset {
		case "windows-1251":
			return charmap.Windows1251.NewDecoder().Reader(input), nil
		}

		return nil, fmt.Errorf("charset is not defined")
	}

	var seen bool

TokenLoop:
	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break TokenLoop
			}

			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return quotes, &provider.ParseError{
					Kind: provider.KindCBR,
					Err:  fmt.Errorf("%w: %v", errDecodeToken, syntaxErr.Error()),
				}
			}

			return quotes, &provider.ParseError{Kind: provider.KindCBR, Err: err}
		}

		tp, ok := token.(xml.StartElement)
		if !ok || tp.Name.Local != "ValCurs" {
			continue
		}

		seen = true

		var node xmlNode
		if err := decoder.DecodeElement(&node, &tp); err != nil {
			return quotes, &provider.ParseError{
				Kind: provider.KindCBR,
				Err:  fmt.Errorf("decode element: %w", err),
			}
		}

		quotes.Time = time.Time(node.Time)

		for _, r := range node.Rates {
			if _, ok := needed[r.Currency]; !ok {
				quotes.Skipped++
				continue
			}

			value, err := decimal.NewFromString(strings.Replace(r.Value, ",", ".", -1))
			if err != nil {
				return quotes, &provider.ParseError{
					Kind: provider.KindCBR,
					Err:  fmt.Errorf("%w: value %q: %v", errAttributeNotValid, r.Value, err),
				}
			}

			nominal, err := decimal.NewFromString(r.Nominal)
			if err != nil || nominal.Sign() <= 0 {
				return quotes, &provider.ParseError{
					Kind: provider.KindCBR,
					Err:  fmt.Errorf("%w: nominal %q", errAttributeNotValid, r.Nominal),
				}
			}

			if value.Sign() <= 0 {
				return quotes, &provider.ParseError{
					Kind: provider.KindCBR,
					Err:  fmt.Errorf("%w: value %q", errAttributeNotValid, r.Value),
				}
			}

			quotes.Rates[r.Currency] = value.Div(nominal)
		}
	}

	if !seen {
		return quotes, &provider.ParseError{
			Kind: provider.KindCBR,
			Err:  fmt.Errorf("%w: no ValCurs element", errDecodeToken),
		}
	}

	return quotes, nil
}

type xmlAttrTime time.Time

func (x *xmlAttrTime) UnmarshalXMLAttr(attr xml.Attr) error {
	t, err := time.Parse("02.01.2006", attr.Value)
	if err != nil {
		return fmt.Errorf("time.Parse: %w", err)
	}

	*x = xmlAttrTime(t)

	return nil
}

type xmlCcyRate struct {
	Currency string `xml:"CharCode"`
	Value    string `xml:"Value"`
	Nominal  string `xml:"Nominal"`
}

type xmlNode struct {
	Time  xmlAttrTime  `xml:"Date,attr"`
	Rates []xmlCcyRate `xml:"Valute"`
}
