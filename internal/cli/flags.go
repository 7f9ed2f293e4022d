package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configAnnotation = "metnum/config:"

// bind makes a flag override the config key when it is set on the
// command line.
func bind(v *viper.Viper, key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// bindOnRun records that flag overrides key when cmd is the command being
// run. Several commands share keys, and viper keeps one flag per key, so
// the binding waits until the command is known.
func bindOnRun(cmd *cobra.Command, flag, key string) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[configAnnotation+flag] = key
}

func bindAnnotated(v *viper.Viper, cmd *cobra.Command) {
	for k, key := range cmd.Annotations {
		if name, ok := strings.CutPrefix(k, configAnnotation); ok {
			bind(v, key, cmd.Flags().Lookup(name))
		}
	}
}

// changed reports whether the named flag was given explicitly.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}
