package digest

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"code.hvlink.org/golang/internal/algos"
)

// writeAlgXml emits one algorithm-bearing XML element in the exact shape the
// service consumes: <{elem} algName="..."/> when content is nil, else
// <{elem} algName="...">{base64 content}</{elem}>.
//
// The fragments are a wire compatibility contract; they are written by hand
// rather than through xml.Encoder to keep empty elements self-closing and the
// output byte stable.
func writeAlgXml(w io.Writer, elem, algName string, content []byte) error {
	escName := bytes.Buffer{}
	err := xml.EscapeText(&escName, []byte(algName))
	if nil != err {
		return wrapError(err, "failed escaping algName")
	}

	if nil == content {
		_, err = fmt.Fprintf(w, `<%s algName="%s"/>`, elem, escName.String())
		return wrapError(err, "failed writing %s element", elem)
	}

	_, err = fmt.Fprintf(
		w,
		`<%s algName="%s">%s</%s>`,
		elem,
		escName.String(),
		base64.StdEncoding.EncodeToString(content),
		elem,
	)
	return wrapError(err, "failed writing %s element", elem)
}

// algXml mirrors the wire shape of algorithm-bearing elements for decoding.
type algXml struct {
	XMLName xml.Name
	AlgName string `xml:"algName,attr"`
	Value   string `xml:",chardata"`
}

// ParseFinalizedXml decodes a <hash> or <hmac> fragment previously produced
// by Finalized.Xml (or echoed by the service) back into a Finalized snapshot.
func ParseFinalizedXml(fragment string) (Finalized, error) {
	var rv Finalized

	parsed := algXml{}
	err := xml.Unmarshal([]byte(fragment), &parsed)
	if nil != err {
		return rv, wrapError(err, "failed decoding digest fragment")
	}
	if parsed.XMLName.Local != kindHash && parsed.XMLName.Local != kindHmac {
		return rv, newError("unexpected element <%s>", parsed.XMLName.Local)
	}
	if "" == parsed.AlgName {
		return rv, newError("missing algName attribute")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parsed.Value))
	if nil != err {
		return rv, wrapError(err, "failed decoding digest value")
	}
	if 0 == len(raw) {
		return rv, newError("empty digest value")
	}

	rv = Finalized{algName: parsed.AlgName, kind: parsed.XMLName.Local, digest: raw}
	return rv, nil
}

// ParseHmacInfoXml decodes an <hmac-alg> fragment carrying key material into
// a keyed Hmac. The counterpart of Hmac.WriteInfoXml.
func ParseHmacInfoXml(cfg algos.Config, fragment string) (*Hmac, error) {
	parsed := algXml{}
	err := xml.Unmarshal([]byte(fragment), &parsed)
	if nil != err {
		return nil, wrapError(err, "failed decoding hmac-alg fragment")
	}
	if parsed.XMLName.Local != kindHmac+"-alg" {
		return nil, newError("unexpected element <%s>", parsed.XMLName.Local)
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parsed.Value))
	if nil != err {
		return nil, wrapError(err, "failed decoding key material")
	}
	return NewHmac(cfg, parsed.AlgName, key)
}
