package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Jiang1756/Rustdesk-builde/internal/githubapi"
)

const (
	firstPageNumberConstant = 1

	listingFailedTemplateConstant    = "unable to list repositories: %w"
	affirmativeResponseConstant      = "yes"
	finalBatchResponseConstant       = "YES"
	allSelectionResponseConstant     = "all"
	quitResponseConstant             = "q"
	shortAffirmativeResponseConstant = "y"
	batchFirstPromptTemplateConstant = "Delete these %d repositories? (yes/no): "
	batchPreviewPromptConstant       = "Confirm preview deletion? (YES/no): "
	batchFinalPromptConstant         = "Really delete these repositories? This cannot be undone! (YES/no): "
	indexPromptTemplateConstant      = "Enter repository indices to delete (1-%d, e.g. 1,3-5,8 or all): "
	indexConfirmTemplateConstant     = "Delete these %d selected repositories? (yes/no): "
	eachPromptTemplateConstant       = "[%d/%d] Delete repository %q? (y/n/q): "
	modeMenuHeaderConstant           = "\nSelect deletion mode:\n  1. batch  - delete everything after two confirmations\n  2. index  - choose repositories by index\n  3. each   - confirm every repository individually\n  4. quit\n"
	modeMenuPromptConstant           = "Enter choice (1-4): "
	dryRunBannerConstant             = "\nDRY RUN mode is active; no repository will actually be deleted.\n"
	cancelledMessageConstant         = "Cancelled.\n"
	noMatchesMessageConstant         = "No matching repositories found.\n"
	matchesHeaderTemplateConstant    = "\nFound %d matching repositories:\n"
	tableRuleConstant                = "--------------------------------------------------------------------------------\n"
	tableHeaderConstant              = "#    Name                           Created     Updated\n"
	tableRowTemplateConstant         = "%-4d %-30s %-11s %-11s\n"
	tableDateLayoutConstant          = "2006-01-02"
	dryRunDeleteTemplateConstant     = "[DRY RUN] would delete repository %s\n"
	deletedTemplateConstant          = "Deleted repository %s\n"
	deleteFailedTemplateConstant     = "Failed to delete repository %s: %v\n"
	summaryTemplateConstant          = "\nDeletion finished:\nSucceeded: %d\nFailed: %d\nTotal: %d\n"
	skippedSafeLogMessageConstant    = "skipping safe repository"
	patternMatchLogMessageConstant   = "repository matched delete pattern"
	repositoryLogFieldNameConstant   = "repository"
	patternLogFieldNameConstant      = "pattern"
	invalidModeErrorTemplateConstant = "invalid cleanup mode %q"
	invalidChoiceMessageConstant     = "Invalid choice, enter a number between 1 and 4.\n"
	menuBatchChoiceConstant          = "1"
	menuIndexChoiceConstant          = "2"
	menuEachChoiceConstant           = "3"
	menuQuitChoiceConstant           = "4"
	repositoriesSelectedLogMessage   = "repositories selected for deletion"
	selectionCountLogFieldName       = "count"
	negativeResponseConstant         = "n"
	negativeResponseLongConstant     = "no"
	quitResponseLongConstant         = "quit"
	eachInvalidResponseMessage       = "Please enter y (yes), n (no), or q (quit).\n"
)

// Sentinel errors for missing collaborators.
var (
	ErrHostingClientNotConfigured = errors.New("cleanup service requires a hosting client")
	ErrPrompterNotConfigured      = errors.New("cleanup service requires a prompter")
)

// Mode selects how deletions are confirmed.
type Mode string

// Supported cleanup modes.
const (
	ModeBatch Mode = "batch"
	ModeIndex Mode = "index"
	ModeEach  Mode = "each"
)

// ParseMode validates a textual cleanup mode. The empty string selects the
// interactive menu.
func ParseMode(candidate string) (Mode, error) {
	normalizedCandidate := strings.ToLower(strings.TrimSpace(candidate))
	switch Mode(normalizedCandidate) {
	case "", ModeBatch, ModeIndex, ModeEach:
		return Mode(normalizedCandidate), nil
	default:
		return "", fmt.Errorf(invalidModeErrorTemplateConstant, candidate)
	}
}

// HostingClient exposes the hosting platform operations cleanup relies on.
type HostingClient interface {
	ListUserRepositories(executionContext context.Context, pageNumber int) ([]githubapi.Repository, error)
	DeleteRepository(executionContext context.Context, repository string) error
}

// ServiceDependencies aggregates the collaborators required by the cleanup service.
type ServiceDependencies struct {
	Logger        *zap.Logger
	HostingClient HostingClient
	Prompter      Prompter
	Output        io.Writer
}

// Summary reports the outcome of a cleanup run.
type Summary struct {
	Succeeded int
	Failed    int
	Total     int
}

// Service deletes the repositories that match the configured patterns after
// interactive confirmation.
type Service struct {
	logger        *zap.Logger
	hostingClient HostingClient
	prompter      Prompter
	output        io.Writer
	configuration Configuration
}

// NewService validates collaborators and constructs a cleanup Service.
func NewService(dependencies ServiceDependencies, configuration Configuration) (*Service, error) {
	if dependencies.HostingClient == nil {
		return nil, ErrHostingClientNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}
	return &Service{
		logger:        logger,
		hostingClient: dependencies.HostingClient,
		prompter:      dependencies.Prompter,
		output:        output,
		configuration: configuration.Sanitize(),
	}, nil
}

// Execute lists, filters, displays, and deletes repositories according to the
// requested mode. An empty mode presents the interactive menu.
func (service *Service) Execute(executionContext context.Context, mode Mode) (Summary, error) {
	allRepositories, listingError := service.listAllRepositories(executionContext)
	if listingError != nil {
		return Summary{}, listingError
	}

	candidates := service.filterRepositories(allRepositories)
	if len(candidates) == 0 {
		fmt.Fprint(service.output, noMatchesMessageConstant)
		return Summary{}, nil
	}

	service.displayRepositories(candidates)
	if service.configuration.DryRun {
		fmt.Fprint(service.output, dryRunBannerConstant)
	}

	if len(mode) == 0 {
		selectedMode, menuError := service.selectModeInteractively()
		if menuError != nil {
			return Summary{}, menuError
		}
		if len(selectedMode) == 0 {
			fmt.Fprint(service.output, cancelledMessageConstant)
			return Summary{}, nil
		}
		mode = selectedMode
	}

	var summary Summary
	var modeError error
	switch mode {
	case ModeBatch:
		summary, modeError = service.runBatchMode(executionContext, candidates)
	case ModeIndex:
		summary, modeError = service.runIndexMode(executionContext, candidates)
	case ModeEach:
		summary, modeError = service.runEachMode(executionContext, candidates)
	default:
		return Summary{}, fmt.Errorf(invalidModeErrorTemplateConstant, mode)
	}
	if modeError != nil {
		return summary, modeError
	}

	fmt.Fprintf(service.output, summaryTemplateConstant, summary.Succeeded, summary.Failed, summary.Total)
	return summary, nil
}

func (service *Service) listAllRepositories(executionContext context.Context) ([]githubapi.Repository, error) {
	collected := []githubapi.Repository{}
	for pageNumber := firstPageNumberConstant; ; pageNumber++ {
		pageRepositories, pageError := service.hostingClient.ListUserRepositories(executionContext, pageNumber)
		if pageError != nil {
			return nil, fmt.Errorf(listingFailedTemplateConstant, pageError)
		}
		if len(pageRepositories) == 0 {
			break
		}
		collected = append(collected, pageRepositories...)
		if waitError := service.wait(executionContext, service.configuration.PageDelay); waitError != nil {
			return nil, waitError
		}
	}
	return collected, nil
}

func (service *Service) filterRepositories(repositories []githubapi.Repository) []githubapi.Repository {
	candidates := []githubapi.Repository{}
	for _, repository := range repositories {
		if service.isSafeRepository(repository.Name) {
			service.logger.Info(skippedSafeLogMessageConstant, zap.String(repositoryLogFieldNameConstant, repository.Name))
			continue
		}
		for _, pattern := range service.configuration.DeletePatterns {
			if MatchesPattern(repository.Name, pattern) {
				service.logger.Info(patternMatchLogMessageConstant,
					zap.String(repositoryLogFieldNameConstant, repository.Name),
					zap.String(patternLogFieldNameConstant, pattern),
				)
				candidates = append(candidates, repository)
				break
			}
		}
	}
	return candidates
}

func (service *Service) isSafeRepository(repositoryName string) bool {
	for _, safeName := range service.configuration.SafeRepositories {
		if repositoryName == safeName {
			return true
		}
	}
	return false
}

func (service *Service) displayRepositories(repositories []githubapi.Repository) {
	fmt.Fprintf(service.output, matchesHeaderTemplateConstant, len(repositories))
	fmt.Fprint(service.output, tableRuleConstant)
	fmt.Fprint(service.output, tableHeaderConstant)
	fmt.Fprint(service.output, tableRuleConstant)
	for index, repository := range repositories {
		fmt.Fprintf(service.output, tableRowTemplateConstant,
			index+1,
			repository.Name,
			repository.CreatedAt.Format(tableDateLayoutConstant),
			repository.UpdatedAt.Format(tableDateLayoutConstant),
		)
	}
	fmt.Fprint(service.output, tableRuleConstant)
}

func (service *Service) selectModeInteractively() (Mode, error) {
	fmt.Fprint(service.output, modeMenuHeaderConstant)
	for {
		choice, promptError := service.prompter.PromptLine(modeMenuPromptConstant)
		if promptError != nil {
			return "", promptError
		}
		switch strings.TrimSpace(choice) {
		case menuBatchChoiceConstant:
			return ModeBatch, nil
		case menuIndexChoiceConstant:
			return ModeIndex, nil
		case menuEachChoiceConstant:
			return ModeEach, nil
		case menuQuitChoiceConstant:
			return "", nil
		default:
			fmt.Fprint(service.output, invalidChoiceMessageConstant)
		}
	}
}

func (service *Service) runBatchMode(executionContext context.Context, repositories []githubapi.Repository) (Summary, error) {
	firstResponse, firstError := service.prompter.PromptLine(fmt.Sprintf(batchFirstPromptTemplateConstant, len(repositories)))
	if firstError != nil {
		return Summary{}, firstError
	}
	if strings.ToLower(firstResponse) != affirmativeResponseConstant {
		fmt.Fprint(service.output, cancelledMessageConstant)
		return Summary{}, nil
	}

	finalPrompt := batchFinalPromptConstant
	if service.configuration.DryRun {
		finalPrompt = batchPreviewPromptConstant
	}
	secondResponse, secondError := service.prompter.PromptLine(finalPrompt)
	if secondError != nil {
		return Summary{}, secondError
	}
	if secondResponse != finalBatchResponseConstant {
		fmt.Fprint(service.output, cancelledMessageConstant)
		return Summary{}, nil
	}

	return service.deleteRepositories(executionContext, repositories)
}

func (service *Service) runIndexMode(executionContext context.Context, repositories []githubapi.Repository) (Summary, error) {
	selectionResponse, selectionError := service.prompter.PromptLine(fmt.Sprintf(indexPromptTemplateConstant, len(repositories)))
	if selectionError != nil {
		return Summary{}, selectionError
	}

	selectedRepositories := repositories
	if strings.ToLower(selectionResponse) != allSelectionResponseConstant {
		selectedIndices, parseError := ParseIndexSelection(selectionResponse, len(repositories))
		if parseError != nil {
			return Summary{}, parseError
		}
		selectedRepositories = make([]githubapi.Repository, 0, len(selectedIndices))
		for _, selectedIndex := range selectedIndices {
			selectedRepositories = append(selectedRepositories, repositories[selectedIndex-1])
		}
	}

	service.logger.Info(repositoriesSelectedLogMessage, zap.Int(selectionCountLogFieldName, len(selectedRepositories)))

	confirmResponse, confirmError := service.prompter.PromptLine(fmt.Sprintf(indexConfirmTemplateConstant, len(selectedRepositories)))
	if confirmError != nil {
		return Summary{}, confirmError
	}
	if strings.ToLower(confirmResponse) != affirmativeResponseConstant {
		fmt.Fprint(service.output, cancelledMessageConstant)
		return Summary{}, nil
	}

	return service.deleteRepositories(executionContext, selectedRepositories)
}

type eachDecision int

const (
	deleteDecision eachDecision = iota
	skipDecision
	quitDecision
)

func (service *Service) runEachMode(executionContext context.Context, repositories []githubapi.Repository) (Summary, error) {
	summary := Summary{}
	for index, repository := range repositories {
		decision, promptError := service.promptEachDecision(index+1, len(repositories), repository.Name)
		if promptError != nil {
			return summary, promptError
		}
		if decision == quitDecision {
			break
		}
		if decision == skipDecision {
			continue
		}

		summary.Total++
		if service.deleteRepository(executionContext, repository) {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if waitError := service.waitBetweenDeletions(executionContext); waitError != nil {
			return summary, waitError
		}
	}
	return summary, nil
}

// promptEachDecision keeps asking until it gets y/n/q (or their long forms);
// prompt errors, including exhausted input, abort the run.
func (service *Service) promptEachDecision(position int, total int, repositoryName string) (eachDecision, error) {
	for {
		response, promptError := service.prompter.PromptLine(fmt.Sprintf(eachPromptTemplateConstant, position, total, repositoryName))
		if promptError != nil {
			return skipDecision, promptError
		}

		switch strings.ToLower(strings.TrimSpace(response)) {
		case shortAffirmativeResponseConstant, affirmativeResponseConstant:
			return deleteDecision, nil
		case negativeResponseConstant, negativeResponseLongConstant:
			return skipDecision, nil
		case quitResponseConstant, quitResponseLongConstant:
			return quitDecision, nil
		default:
			fmt.Fprint(service.output, eachInvalidResponseMessage)
		}
	}
}

func (service *Service) deleteRepositories(executionContext context.Context, repositories []githubapi.Repository) (Summary, error) {
	summary := Summary{Total: len(repositories)}
	for _, repository := range repositories {
		if service.deleteRepository(executionContext, repository) {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if waitError := service.waitBetweenDeletions(executionContext); waitError != nil {
			return summary, waitError
		}
	}
	return summary, nil
}

func (service *Service) deleteRepository(executionContext context.Context, repository githubapi.Repository) bool {
	if service.configuration.DryRun {
		fmt.Fprintf(service.output, dryRunDeleteTemplateConstant, repository.FullName)
		return true
	}

	if deletionError := service.hostingClient.DeleteRepository(executionContext, repository.FullName); deletionError != nil {
		fmt.Fprintf(service.output, deleteFailedTemplateConstant, repository.FullName, deletionError)
		return false
	}
	fmt.Fprintf(service.output, deletedTemplateConstant, repository.FullName)
	return true
}

// waitBetweenDeletions rate-limits real deletions; dry runs never sleep.
func (service *Service) waitBetweenDeletions(executionContext context.Context) error {
	if service.configuration.DryRun {
		return nil
	}
	return service.wait(executionContext, service.configuration.DeleteDelay)
}

func (service *Service) wait(executionContext context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-time.After(delay):
		return nil
	}
}
