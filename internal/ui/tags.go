package ui

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Olprog59/go-contenthub/internal/logging"
)

// Reserved id suffixes appended by the client-side modules / Suffixes réservés par les modules client
const (
	ToggleContainerSuffix = "-toggle-container"
	ButtonGroupSuffix     = "-toggled-button-group"
)

const modulesPath = "/static/js/modules/"

var (
	toggleIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	allowedEvents     = []string{"on-load"}
	allowedActions    = []string{"click", "toggle"}
	allowedStrategies = []string{"all", "first", "last", "none", "random", "byText"}

	tagLog = sync.OnceValue(func() *slog.Logger { return logging.Module("templatetags") })
)

// TemplateTagInitError reports invalid template helper arguments.
// With a reserved suffix the message explains how to strip it.
type TemplateTagInitError struct {
	Msg            string
	ReservedSuffix string
}

func (e *TemplateTagInitError) Error() string {
	if e.ReservedSuffix == "" {
		return e.Msg
	}
	return fmt.Sprintf(
		"%s\n\nDo not include the '%s' suffix in this tag's argument.\nIf your group's ID is 'example-abc%s', use 'example-abc' as the argument.",
		e.Msg, e.ReservedSuffix, e.ReservedSuffix,
	)
}

func moduleScript(module, call string) template.HTML {
	return template.HTML(fmt.Sprintf(
		"<script type=\"module\">\n\timport { %s } from \"%s%s.mjs\";\n\t%s\n</script>",
		module, modulesPath, module, call,
	))
}

// jsString quotes s for a JS string literal inside a <script> element.
// Cite s pour un littéral JS dans un élément <script>.
func jsString(s string) string {
	return `"` + template.JSEscapeString(s) + `"`
}

// InitButtonGroups emits the ToggledButtonGroup bootstrap script; no ids emits nothing.
// Émet le script d'initialisation des groupes de boutons.
func InitButtonGroups(groupIDs ...string) template.HTML {
	ids := cleanIDs(groupIDs)
	if len(ids) == 0 {
		return ""
	}
	return moduleScript("ToggledButtonGroup", fmt.Sprintf("ToggledButtonGroup.initAll(%s);", jsString(strings.Join(ids, " "))))
}

// InitContentToggles validates toggle ids and emits the ContentToggleHandler bootstrap script.
// Valide les ids et émet le script d'initialisation des bascules de contenu.
func InitContentToggles(toggleIDs ...string) (template.HTML, error) {
	ids := cleanIDs(toggleIDs)
	tagLog().Debug("init_content_toggles", "toggle_ids", ids)

	if len(ids) == 0 {
		return "", &TemplateTagInitError{
			Msg:            "init_content_toggles tag requires at least one content toggle ID.",
			ReservedSuffix: ToggleContainerSuffix,
		}
	}
	for _, id := range ids {
		if strings.Contains(id, ToggleContainerSuffix) {
			return "", &TemplateTagInitError{Msg: fmt.Sprintf("Invalid toggle ID '%s'.", id), ReservedSuffix: ToggleContainerSuffix}
		}
		if !toggleIDPattern.MatchString(id) {
			return "", &TemplateTagInitError{
				Msg:            fmt.Sprintf("Toggle ID '%s' contains invalid characters. Only alphanumeric characters, hyphens, and underscores are allowed.", id),
				ReservedSuffix: ToggleContainerSuffix,
			}
		}
	}

	return moduleScript("ContentToggleHandler", fmt.Sprintf("ContentToggleHandler.initAll(%s);", jsString(strings.Join(ids, " ")))), nil
}

// InvokeAction validates an action binding and emits the ActionInvoker bootstrap script.
// strategy is one of all, first, last, none, random, byText or an index from 0 to 100.
// Valide une action et émet le script ActionInvoker.
func InvokeAction(event, action, strategy, targetID string) (template.HTML, error) {
	tagLog().Debug("invoke_action", "event", event, "action", action, "strategy", strategy, "target_id", targetID)

	if err := validateAction(event, action, strategy, targetID); err != nil {
		tagLog().Error("invoke_action validation error", "err", err)
		return "", &TemplateTagInitError{Msg: err.Error()}
	}

	call := fmt.Sprintf("ActionInvoker.initAll([{ event: %s, action: %s, targetId: %s, strategy: %s }]);",
		jsString(event), jsString(action), jsString(targetID), jsString(strategy))
	return moduleScript("ActionInvoker", call), nil
}

func validateAction(event, action, strategy, targetID string) error {
	if event == "" || action == "" || targetID == "" {
		return errors.New("Missing required parameters: event, action, and target_id must be provided.")
	}
	if !slices.Contains(allowedEvents, event) {
		return fmt.Errorf("Invalid event: %s. Allowed events are: %s.", event, strings.Join(allowedEvents, ", "))
	}
	if !validStrategy(strategy) {
		return fmt.Errorf("Invalid strategy: %s. Allowed strategies are: %s or an index between 0 and 100.", strategy, strings.Join(allowedStrategies, ", "))
	}
	if !slices.Contains(allowedActions, action) {
		return fmt.Errorf("Invalid action: %s. Allowed actions are: %s.", action, strings.Join(allowedActions, ", "))
	}
	if strings.TrimSpace(targetID) == "" {
		return errors.New("Invalid target_id: It must be a non-empty string.")
	}
	return nil
}

func validStrategy(strategy string) bool {
	if slices.Contains(allowedStrategies, strategy) {
		return true
	}
	if strategy == "" || strings.TrimLeft(strategy, "0123456789") != "" {
		return false
	}
	n, err := strconv.Atoi(strategy)
	return err == nil && n >= 0 && n <= 100
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
