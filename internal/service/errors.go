package service

import (
	"errors"

	"github.com/digkill/contos-diarios/internal/storyapi"
	"github.com/digkill/contos-diarios/internal/theme"
)

var (
	ErrAdultContentRequiresPremium = errors.New("adult content requires premium plan")
	ErrMonthlyLimitReached         = errors.New("monthly story limit reached")
	ErrThirtyDayRequiresPremium    = errors.New("thirty-day mode requires premium plan")
	ErrAdultThemeInThirtyDay       = errors.New("thirty-day mode does not allow adult themes")
	ErrGenerationInProgress        = errors.New("a story is already being generated")
	ErrGenerationFailed            = errors.New("story generation failed")
)

// User-facing copy in European Portuguese.
const (
	MsgFreeLimitReached     = "Atingiu o limite mensal do plano gratuito. Faça upgrade para continuar."
	MsgPremiumRequired      = "Esta funcionalidade está disponível apenas para utilizadores Premium."
	MsgEroticPremiumOnly    = "Conteúdo erótico disponível apenas no plano Premium."
	MsgThirtyDayPremiumOnly = "O modo '30 Dias de Contos' está disponível apenas para utilizadores Premium."
	MsgThirtyDayAdultTheme  = "O modo '30 Dias de Contos' não inclui temas para adultos."
	MsgStoryGenerated       = "O seu conto foi gerado com sucesso!"
	MsgDailyStoryReady      = "O seu conto diário está pronto para ler."
	MsgThirtyDayCompleted   = "Completou os 30 Dias de Contos! Pode iniciar uma nova jornada quando quiser."
	MsgThirtyDayStopped     = "O modo '30 Dias de Contos' foi desativado."
	MsgUpgradeCTA           = "Fazer upgrade para Premium"
	MsgGenerationInProgress = "Já está a ser gerado um conto. Aguarde um momento."
	MsgRateLimited          = "Limite de pedidos atingido. Tente novamente em alguns minutos."
	MsgQuotaExhausted       = "Créditos esgotados. Por favor, adicione créditos à sua conta ou contacte o suporte."
	MsgUnknownTheme         = "Tema desconhecido. Escolha um dos temas disponíveis."
	MsgGenericFailure       = "Ocorreu um erro ao gerar o conto. Tente novamente."
)

// UserMessage maps an error from this package to the text shown to the reader.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAdultContentRequiresPremium):
		return MsgEroticPremiumOnly
	case errors.Is(err, ErrMonthlyLimitReached):
		return MsgFreeLimitReached
	case errors.Is(err, ErrThirtyDayRequiresPremium):
		return MsgThirtyDayPremiumOnly
	case errors.Is(err, ErrAdultThemeInThirtyDay):
		return MsgThirtyDayAdultTheme
	case errors.Is(err, ErrGenerationInProgress):
		return MsgGenerationInProgress
	case errors.Is(err, theme.ErrUnknownTheme):
		return MsgUnknownTheme
	case errors.Is(err, storyapi.ErrRateLimited):
		return MsgRateLimited
	case errors.Is(err, storyapi.ErrQuotaExhausted):
		return MsgQuotaExhausted
	default:
		return MsgGenericFailure
	}
}

// IsDenied reports whether err is an entitlement denial rather than a failure.
func IsDenied(err error) bool {
	return errors.Is(err, ErrAdultContentRequiresPremium) ||
		errors.Is(err, ErrMonthlyLimitReached) ||
		errors.Is(err, ErrThirtyDayRequiresPremium) ||
		errors.Is(err, ErrAdultThemeInThirtyDay)
}
