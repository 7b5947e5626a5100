package formatting

import (
	"fmt"
	"strings"
	"time"
)

type consoleFormatter struct{}

func (f *consoleFormatter) FormatItems(list ItemList) string {
	output := make([]string, 0, len(list.Items)+1)
	output = append(output, list.Items...)
	output = append(output, totalLine(list.Count))
	return strings.Join(output, "\n") + "\n"
}

func (f *consoleFormatter) FormatCertificate(info CertificateInfo) string {
	output := []string{
		fmt.Sprintf("Subject:    %s", info.Subject),
		fmt.Sprintf("Serial:     %s", info.Serial),
		fmt.Sprintf("Thumbprint: %s", info.Thumbprint),
		fmt.Sprintf("Valid:      %s - %s", info.NotBefore.Format(time.RFC3339), info.NotAfter.Format(time.RFC3339)),
		fmt.Sprintf("Source:     %s", info.Source),
	}
	return strings.Join(output, "\n") + "\n"
}
