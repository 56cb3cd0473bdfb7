package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/service"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/config"
)

func newTokenCmd() *cobra.Command {
	var (
		req    service.TokenRequest
		role   string
		secret string
		issuer string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for local environments",
		Long: `Issue an access token signed with the service secret. The secret and issuer default
to JWT_SECRET and JWT_ISSUER from the environment or .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" || issuer == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if secret == "" {
					secret = cfg.JWT.Secret
				}
				if issuer == "" {
					issuer = cfg.JWT.Issuer
				}
			}
			req.Role = models.UserRole(role)
			auth := service.NewAuthService(service.AuthConfig{Secret: secret, Issuer: issuer, TokenTTL: ttl}, nil)
			token, err := auth.IssueToken(req)
			if err != nil {
				return err
			}
			return printJSON(cmd, token)
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "user name carried in the token")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(models.RoleCA), "role: CA, RO, DM or ADMIN")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret")
	cmd.Flags().StringVar(&issuer, "issuer", "", "token issuer")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
