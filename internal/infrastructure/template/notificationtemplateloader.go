package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// fileTemplate is one entry of the overrides file:
//
//	ticket.assigned:
//	  title: "Job {{.number}} is yours"
//	  body: "..."
type fileTemplate struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// NotificationTemplateLoader builds the template set from the built-in
// defaults plus an optional YAML overrides file.
type NotificationTemplateLoader struct {
	path   string
	logger logger.Interface
}

func NewNotificationTemplateLoader(path string, logger logger.Interface) *NotificationTemplateLoader {
	return &NotificationTemplateLoader{path: path, logger: logger}
}

// Load never fails because the overrides file is missing; a malformed file
// is an error so that a typo is noticed at startup.
func (l *NotificationTemplateLoader) Load() (*notification.TemplateSet, error) {
	set, err := notification.DefaultTemplateSet()
	if err != nil {
		return nil, err
	}
	if l.path == "" {
		return set, nil
	}

	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Debugw("notification template overrides not found, using defaults", "path", l.path)
			return set, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", l.path, err)
	}

	var overrides map[string]fileTemplate
	if err := yaml.Unmarshal(content, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.path, err)
	}

	for eventType, ft := range overrides {
		t, err := notification.NewTemplate(eventType, ft.Title, ft.Body)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", eventType, err)
		}
		set.Override(t)
	}

	l.logger.Infow("notification templates loaded", "path", l.path, "overrides", len(overrides))
	return set, nil
}
