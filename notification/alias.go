package notification

import (
	"go.uber.org/zap"

	"inquiry-relay/config"
	"inquiry-relay/models"
)

// Resolver picks the SMTP credential set for an optional sender alias.
type Resolver struct {
	defaults models.SenderCredential
	aliases  map[string]config.Alias
	logger   *zap.Logger
}

func NewResolver(cfg *config.Config, logger *zap.Logger) *Resolver {
	aliases := make(map[string]config.Alias, len(cfg.Aliases))
	for _, a := range cfg.Aliases {
		aliases[a.Address] = a
	}
	return &Resolver{
		defaults: models.SenderCredential{
			Username:    cfg.SMTP.Username,
			Password:    cfg.SMTP.Password,
			FromAddress: cfg.SMTP.From,
		},
		aliases: aliases,
		logger:  logger,
	}
}

// Resolve never fails: unknown aliases and aliases with incomplete
// credentials fall back to the default sender.
func (r *Resolver) Resolve(alias string) models.SenderCredential {
	if alias == "" {
		return r.defaults
	}
	a, ok := r.aliases[alias]
	if !ok {
		return r.defaults
	}
	if a.Username == "" || a.Password == "" {
		r.logger.Warn("credentials not found for alias, using default credentials",
			zap.String("alias", alias))
		return r.defaults
	}

	r.logger.Info("using alias credentials", zap.String("alias", alias))
	return models.SenderCredential{
		Username:    a.Username,
		Password:    a.Password,
		FromAddress: alias,
	}
}
