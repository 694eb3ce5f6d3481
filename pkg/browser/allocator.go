// pkg/browser/allocator.go
package browser

import (
	"os"
	"runtime"
	"strings"

	"github.com/chromedp/chromedp"
)

// allocatorOptions turns Options into chromedp exec allocator flags.
func allocatorOptions(o *Options) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	// A false boolean flag is dropped by the allocator, which overrides the default headless flag.
	opts = append(opts,
		chromedp.Flag("headless", o.Headless()),
		chromedp.Flag("disable-gpu", o.Headless()),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
	)

	if o.ExecutablePath() != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecutablePath()))
	}

	for _, arg := range o.Args() {
		parts := strings.SplitN(arg, "=", 2)
		name := strings.TrimPrefix(parts[0], "--")
		if name == "" {
			continue
		}
		if len(parts) == 2 {
			opts = append(opts, chromedp.Flag(name, parts[1]))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}

	// Containers usually run as root with a tiny /dev/shm.
	if runtime.GOOS == "linux" {
		opts = append(opts, chromedp.Flag("disable-dev-shm-usage", true))
		if os.Geteuid() == 0 {
			opts = append(opts,
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-setuid-sandbox", true),
			)
		}
	}

	return opts
}
