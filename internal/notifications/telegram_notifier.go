package notifications

import (
	"fmt"
	"strings"

	"group_decisions/configs"
	"group_decisions/internal"
	"group_decisions/internal/decision"
	"group_decisions/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramNotifier struct {
	bot    sender
	chatID int64
	logger *zap.SugaredLogger
}

type Notifier interface {
	NotifyStageChanged(outcomes []services.Outcome)
}

type noopNotifier struct{}

func (noopNotifier) NotifyStageChanged([]services.Outcome) {}

// NewTelegramNotifier returns a notifier that drops messages when the bot token
// is not configured.
func NewTelegramNotifier(config configs.Notifications, logger *zap.SugaredLogger) (Notifier, error) {
	if !config.Enabled() {
		logger.Info("telegram notifications disabled")
		return noopNotifier{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("could not create bot: %w", err)
	}

	return &telegramNotifier{bot: bot, chatID: config.ChatID, logger: logger}, nil
}

func (n *telegramNotifier) NotifyStageChanged(outcomes []services.Outcome) {
	for _, outcome := range outcomes {
		message := tgbotapi.NewMessage(n.chatID, StageChangedText(outcome))
		if _, err := n.bot.Send(message); err != nil {
			n.logger.Errorw("could not send message", "proposal_id", outcome.Proposal.ID, "error", err)
		}
	}
}

// cases.Caser is stateful; one per call.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func StageChangedText(outcome services.Outcome) string {
	proposal := outcome.Proposal
	tally := outcome.Tally

	var text strings.Builder
	fmt.Fprintf(&text, "%s %s: %s\n", title(proposal.Kind.String()), proposal.ID, title(proposal.Stage.String()))
	if body := firstLine(proposal.Body); body != "" {
		fmt.Fprintf(&text, "%s\n", body)
	}
	fmt.Fprintf(&text, "Stage entered: %s\n", internal.FormatDate(proposal.StageEnteredAt))
	fmt.Fprintf(&text, "Decision model: %s\n", title(strings.ReplaceAll(proposal.DecisionModel.String(), "-", " ")))
	fmt.Fprintf(&text, "Time limit: %s", internal.FormatTimeLimit(proposal.Config.VotingTimeLimit))
	if proposal.Config.ClosingAt != nil {
		fmt.Fprintf(&text, ", closing %s", internal.FormatDate(*proposal.Config.ClosingAt))
	}
	fmt.Fprintln(&text)
	fmt.Fprintf(&text, "Agree %d, disagree %d, abstain %d", tally.Agreements, tally.Disagreements, tally.Abstains)
	if tally.Blocks > 0 {
		fmt.Fprintf(&text, ", block %d", tally.Blocks)
	}
	fmt.Fprintln(&text)
	if proposal.Config.QuorumEnabled {
		fmt.Fprintf(&text, "Quorum: %d%% of %d required votes\n", tally.Quorum.Percentage, tally.Quorum.Required)
	}

	switch proposal.Stage {
	case decision.StageRevision:
		text.WriteString("Voting is paused until the proposal is revised.")
	case decision.StageClosed:
		text.WriteString("The voting window elapsed without enough agreement.")
	case decision.StageRatified:
		text.WriteString("The proposal was ratified.")
	}

	return strings.TrimRight(text.String(), "\n")
}

func firstLine(body string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	return line
}
