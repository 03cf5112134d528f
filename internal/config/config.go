// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/8wontae4/cost-calculation/internal/costmodel"
	"github.com/8wontae4/cost-calculation/pkg/constants"
	"github.com/8wontae4/cost-calculation/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for cost-calculator.
type Configuration struct {
	Logging   LoggingConfig        `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig         `yaml:"output,omitempty" mapstructure:"output"`
	Plan      costmodel.PlanInputs `yaml:"plan" mapstructure:"plan"`
	Scenarios []Scenario           `yaml:"scenarios,omitempty" mapstructure:"scenarios"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// Scenario is a named what-if variation of the base plan.
type Scenario struct {
	Name      string                  `yaml:"name" mapstructure:"name"`
	Active    bool                    `yaml:"active" mapstructure:"active"`
	Overrides costmodel.PlanOverrides `yaml:"overrides,omitempty" mapstructure:"overrides"`
}

// NamedPlan is a fully resolved plan for one scenario.
type NamedPlan struct {
	Name string
	Plan costmodel.PlanInputs
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

// DefaultConfiguration returns the configuration used when no file is given.
func DefaultConfiguration() *Configuration {
	return &Configuration{Plan: costmodel.DefaultPlan()}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make every plan key known to viper, which lets environment
	// variables such as COST_CALCULATOR_PLAN_SETPRICE override them.
	d := costmodel.DefaultPlan()
	v.SetDefault("plan.productionPeriodMonths", d.ProductionPeriodMonths)
	v.SetDefault("plan.targetGLABSales", d.TargetGLABSales)
	v.SetDefault("plan.setPrice", d.SetPrice)
	v.SetDefault("plan.opticalBlockPrice", d.OpticalBlockPrice)
	v.SetDefault("plan.opticalQuartzPrice", d.OpticalQuartzPrice)
	v.SetDefault("plan.otherPartsPrice", d.OtherPartsPrice)
	v.SetDefault("plan.requiredWorkers", d.RequiredWorkers)
	v.SetDefault("plan.annualSalary", d.AnnualSalary)
	v.SetDefault("plan.initialSetupCost", d.InitialSetupCost)
	v.SetDefault("plan.depreciationPeriodYears", d.DepreciationPeriodYears)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	configuration := DefaultConfiguration()
	if err := v.Unmarshal(configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return configuration, nil
}

// ScenarioPlans resolves the base plan and every active scenario, base first.
func (c *Configuration) ScenarioPlans() []NamedPlan {
	plans := []NamedPlan{{Name: constants.DefaultScenarioName, Plan: c.Plan}}
	for _, scenario := range c.Scenarios {
		if !scenario.Active {
			continue
		}
		plans = append(plans, NamedPlan{Name: scenario.Name, Plan: scenario.Overrides.Apply(c.Plan)})
	}
	return plans
}

// Validate checks the base plan and every active scenario against the
// accepted input ranges.
func (c *Configuration) Validate() error {
	for _, np := range c.ScenarioPlans() {
		if err := validation.ValidatePlan(np.Plan); err != nil {
			return fmt.Errorf("scenario %s: %w", np.Name, err)
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	seen := map[string]bool{constants.DefaultScenarioName: true}
	for i, scenario := range c.Scenarios {
		name := strings.TrimSpace(scenario.Name)
		switch {
		case name == "":
			warnings = append(warnings, fmt.Sprintf("Scenario #%d has no name", i+1))
		case seen[name]:
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is defined more than once", name))
		}
		seen[name] = true

		if !scenario.Active {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is inactive and will be skipped", scenario.Name))
		} else if scenario.Overrides == (costmodel.PlanOverrides{}) {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' overrides nothing and repeats the base plan", scenario.Name))
		}
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
