package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// XMLNode is a navigable element tree produced by the XML codec.
type XMLNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []XMLNode  `xml:",any"`
}

// Child returns the first child element with the given local name, or nil.
func (n *XMLNode) Child(name string) *XMLNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// Attr returns the value of the named attribute, or "".
func (n *XMLNode) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// XML is the codec for application/xml bodies.
//
// Serialize walks arbitrary values reflectively: structs become an element
// named after their type with one child per exported field, maps and slices
// become an <array> wrapper, booleans become the literal text TRUE/FALSE.
// The walk is best-effort and lossy: cyclic structures are not detected and
// unexported state is skipped. Values implementing xml.Marshaler bypass the
// reflective walk entirely.
type XML struct{}

// Parse decodes an XML body into an *XMLNode tree. An empty body decodes
// to nil.
func (XML) Parse(body []byte) (interface{}, error) {
	body = StripBOM(body)
	if len(body) == 0 {
		return nil, nil
	}

	node := new(XMLNode)
	if err := xml.Unmarshal(body, node); err != nil {
		return nil, &ParseError{MIME: "application/xml", Message: "unable to parse response as XML", Err: err}
	}
	return node, nil
}

// Serialize encodes a value as an XML document.
func (XML) Serialize(value interface{}) ([]byte, error) {
	if m, ok := value.(xml.Marshaler); ok {
		return xml.Marshal(m)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := writeXMLValue(&buf, "", value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeXMLValue emits one element for value. An empty name means the value
// chooses its own root element (type name for structs, "array" for
// containers, "value" for scalars).
func writeXMLValue(buf *bytes.Buffer, name string, value interface{}) error {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			writeXMLElement(buf, elementName(name, "value"), "")
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		writeXMLElement(buf, elementName(name, "value"), "")
		return nil
	}

	switch rv.Kind() {
	case reflect.Struct:
		open := elementName(name, rv.Type().Name())
		if open == "" {
			open = "struct"
		}
		buf.WriteString("<" + open + ">")
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			if err := writeXMLValue(buf, field.Name, rv.Field(i).Interface()); err != nil {
				return err
			}
		}
		buf.WriteString("</" + open + ">")

	case reflect.Map:
		open := elementName(name, "array")
		buf.WriteString("<" + open + ">")
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		for _, k := range rv.MapKeys() {
			ks := fmt.Sprint(k.Interface())
			keys = append(keys, ks)
			byKey[ks] = rv.MapIndex(k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := k
			if _, err := strconv.Atoi(k); err == nil {
				child = "child-" + k
			}
			if err := writeXMLValue(buf, child, byKey[k].Interface()); err != nil {
				return err
			}
		}
		buf.WriteString("</" + open + ">")

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			writeXMLElement(buf, elementName(name, "value"), string(rv.Bytes()))
			return nil
		}
		open := elementName(name, "array")
		buf.WriteString("<" + open + ">")
		for i := 0; i < rv.Len(); i++ {
			if err := writeXMLValue(buf, "child-"+strconv.Itoa(i), rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		buf.WriteString("</" + open + ">")

	case reflect.Bool:
		text := "FALSE"
		if rv.Bool() {
			text = "TRUE"
		}
		writeXMLElement(buf, elementName(name, "value"), text)

	default:
		writeXMLElement(buf, elementName(name, "value"), fmt.Sprint(rv.Interface()))
	}
	return nil
}

func writeXMLElement(buf *bytes.Buffer, name, text string) {
	buf.WriteString("<" + name + ">")
	xml.EscapeText(buf, []byte(text)) //nolint:errcheck // bytes.Buffer does not fail
	buf.WriteString("</" + name + ">")
}

func elementName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
