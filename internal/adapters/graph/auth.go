package graph

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/intunekit/hydrator/internal/errors"
)

const (
	AuthModeClientSecret = "client_secret"
	AuthModeDeviceCode   = "device_code"
	AuthModeCLI          = "cli"
)

// NewCredential builds the token credential for the configured auth mode.
// Failure here is fatal: the run must not start reconciling without a way to
// talk to Graph.
func NewCredential(authMode, tenantID, clientID, clientSecret string) (azcore.TokenCredential, error) {
	switch authMode {
	case AuthModeClientSecret:
		if clientSecret == "" {
			return nil, errors.NewUserFacing(errors.CodeGraphAuthError,
				"client_secret auth mode selected but no client secret provided",
				"Set HYDRATOR_TENANT_CLIENTSECRET or add it to your .env file.")
		}
		cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeGraphAuthError, "building client secret credential")
		}
		return cred, nil

	case AuthModeDeviceCode:
		cred, err := azidentity.NewDeviceCodeCredential(&azidentity.DeviceCodeCredentialOptions{
			TenantID: tenantID,
			ClientID: clientID,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeGraphAuthError, "building device code credential")
		}
		return cred, nil

	case AuthModeCLI:
		cred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
			TenantID: tenantID,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeGraphAuthError, "building Azure CLI credential")
		}
		return cred, nil

	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported auth mode: %q", authMode),
			fmt.Sprintf("Supported modes: %s, %s, %s", AuthModeClientSecret, AuthModeDeviceCode, AuthModeCLI))
	}
}
