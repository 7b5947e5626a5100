// Package config holds the daemon configuration: the identity provider
// coordinates, the certificate to authenticate with, the To Do list service
// address and the loop settings.
//
// Configuration is read once at startup by LoadConfig and is treated as an
// immutable value afterwards; components receive the sections they need
// instead of consulting process-wide state.
//
// # Sources
//
// Values are resolved in this order, later sources winning:
//
//  1. GetDefaultConfig
//  2. config.yaml (explicit --config path, ./config.yaml or ~/.config/tododaemon/config.yaml)
//  3. TODODAEMON_* environment variables, with "." replaced by "_"
//     (TODODAEMON_IDENTITY_CLIENTID, TODODAEMON_DAEMON_ITERATIONS, ...)
//
// # Example
//
//	identity:
//	  aadInstance: https://login.microsoftonline.com/{0}
//	  tenant: contoso.onmicrosoft.com
//	  clientId: 2f0c1d1e-0000-0000-0000-000000000000
//	  certName: CN=TodoListDaemonWithCert
//	  certStorePath: /etc/tododaemon/certs
//	  endpointVersion: v1
//	  retry:
//	    maxAttempts: 3
//	    backoff: 3s
//	todoList:
//	  resourceId: https://contoso.onmicrosoft.com/TodoListService
//	  baseAddress: https://localhost:44321
//	daemon:
//	  iterations: 10
//	  delay: 1s
//
// Validate reports every problem at once as ValidationErrors.
package config
