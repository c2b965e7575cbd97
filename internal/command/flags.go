// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"
	"strconv"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/power-control/power-control/internal/config"
)

// truthyEnvSource is a cli.ValueSource over an environment variable that
// accepts the container-style spellings true/yes/on/1 for boolean flags,
// which strconv.ParseBool alone would reject.
type truthyEnvSource struct {
	key string
}

func (s *truthyEnvSource) Lookup() (string, bool) {
	v, ok := os.LookupEnv(s.key)
	if !ok {
		return "", false
	}
	return strconv.FormatBool(config.Truthy(v)), true
}

func (s *truthyEnvSource) String() string {
	return fmt.Sprintf("environment variable %q", s.key)
}

func (s *truthyEnvSource) GoString() string {
	return fmt.Sprintf("truthyEnv(%q)", s.key)
}

func truthyEnv(key string) cli.ValueSource {
	return &truthyEnvSource{key: key}
}

// NewSweepFlags builds the flag set shared by the run, daemon and report
// commands. String flags chain environment variables with namespaced YAML
// config file sources; boolean flags accept the container-style truthy
// spellings from the environment.
func NewSweepFlags(ns string, cfgPath string) []cli.Flag {
	strFlag := func(name, env, value, usage string) *cli.StringFlag {
		flag := &cli.StringFlag{
			Name:    name,
			Usage:   usage,
			Sources: cli.NewValueSourceChain(cli.EnvVar(env)),
			Value:   value,
		}
		if cfgPath != "" {
			flag = NameSpacedValueChainFlagFromConfigFile(ns, cfgPath, flag)
		}
		return flag
	}

	return []cli.Flag{
		strFlag("admin-email", "ADMIN_EMAIL", "", "recipient of the admin run report"),
		strFlag("region", "AWS_DEFAULT_REGION", "us-west-2", "seed region for region discovery"),
		&cli.StringFlag{
			Name:    "action",
			Usage:   "power action applied to out-of-schedule instances",
			Sources: cli.NewValueSourceChain(cli.EnvVar("POWER_ACTION")),
			Value:   "stop",
			Validator: func(value string) error {
				return FlagValidators(value, ActionValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Usage:   "evaluate and notify but never stop anything",
			Sources: cli.NewValueSourceChain(truthyEnv("DRY_RUN")),
			Value:   true,
		},
		&cli.BoolFlag{
			Name:    "immediate",
			Usage:   "run a single sweep and exit",
			Sources: cli.NewValueSourceChain(truthyEnv("IMMEDIATE")),
			Value:   true,
		},
		&cli.BoolFlag{
			Name:    "send-email",
			Usage:   "really send notification email",
			Sources: cli.NewValueSourceChain(truthyEnv("SEND_EMAIL")),
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "transport",
			Usage:   "email transport",
			Sources: cli.NewValueSourceChain(cli.EnvVar("EMAIL_TRANSPORT")),
			Value:   "smtp",
			Validator: func(value string) error {
				return FlagValidators(value, TransportValidator)
			},
		},
		&cli.IntFlag{
			Name:    "wait-hours",
			Usage:   "hours between notifications for the same instance",
			Sources: cli.NewValueSourceChain(cli.EnvVar("NOTIFICATION_WAIT_HOURS")),
			Value:   12,
		},
		strFlag("cron", "POWER_CONTROL_CRON", "1 * * * *", "cron spec for scheduled sweeps"),
		strFlag("protected-owners", "PROTECTED_OWNERS", "", "comma-separated owners never acted on"),
		strFlag("ses-configuration-set", "AWS_SES_CONFIGURATION_SET", "", "SES configuration set"),
		strFlag("smtp-from", "SMTP_FROM", "", "From address for notifications"),
		strFlag("smtp-host", "SMTP_HOST", "", "SMTP relay host"),
		strFlag("smtp-username", "SMTP_USERNAME", "", "SMTP username"),
		strFlag("smtp-password", "SMTP_PASSWORD", "", "SMTP password"),
		strFlag("template-path", "TEMPLATE_PATH", "/power-control/templates", "directory of template overrides"),
		strFlag("tracking-file", "TRACKING_FILE", "/data/power-control.json", "notification tracking file"),
		strFlag("tz", "TZ", "Etc/UTC", "default schedule time zone"),
	}
}

// NewOutputFlags builds the output-pipeline flags used by the report command.
func NewOutputFlags() (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show local timestamps",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "extra spaces between table columns",
			Value: 2,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
