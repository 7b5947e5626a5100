package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tododaemon/internal/app"
	"tododaemon/internal/auth"
	"tododaemon/internal/formatting"
)

var certOutput string

// newCertCmd creates the command that shows which certificate the daemon would use.
func newCertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Show the client certificate selected from the certificate store",
		Long: `Looks up identity.certName in identity.certStorePath the same way the daemon
does at startup and prints the selected certificate. Among certificates valid
now, the one with the latest NotBefore wins.

Exits with code 2 when no active certificate matches.`,
		Args: cobra.NoArgs,
		RunE: runCert,
	}
	cmd.Flags().StringVarP(&certOutput, "output", "o", string(formatting.FormatTable), "Output format: table, console, json or yaml")
	return cmd
}

func runCert(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}
	format, err := formatting.ParseOutputFormat(certOutput)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cert, err := app.LocateCertificate(cfg.DaemonConfig.Identity)
	if err != nil {
		return err
	}
	credential, err := auth.NewCredential(cfg.DaemonConfig.Identity.ClientID, cert)
	if err != nil {
		return err
	}

	info := formatting.CertificateInfo{
		Subject:    cert.Leaf.Subject.String(),
		Serial:     cert.Leaf.SerialNumber.String(),
		Thumbprint: credential.Thumbprint(),
		NotBefore:  cert.Leaf.NotBefore,
		NotAfter:   cert.Leaf.NotAfter,
		Source:     cert.Source,
	}
	fmt.Fprint(cmd.OutOrStdout(), formatting.New(formatting.Options{Format: format}).FormatCertificate(info))
	return nil
}
