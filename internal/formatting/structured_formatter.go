package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type jsonFormatter struct{}

func (f *jsonFormatter) FormatItems(list ItemList) string {
	return PrettyJSON(list) + "\n"
}

func (f *jsonFormatter) FormatCertificate(info CertificateInfo) string {
	return PrettyJSON(info) + "\n"
}

type yamlFormatter struct{}

func (f *yamlFormatter) FormatItems(list ItemList) string {
	return f.marshal(list)
}

func (f *yamlFormatter) FormatCertificate(info CertificateInfo) string {
	return f.marshal(info)
}

func (f *yamlFormatter) marshal(v interface{}) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %q\n", err.Error())
	}
	return string(out)
}
