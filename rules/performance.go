package rules

import (
	"math"

	"github.com/c360studio/semcheck/canonical"
	"github.com/c360studio/semcheck/corpus"
)

// checkSize warns on large files, on files whose compact form is nearly as
// large as the stored form, and on a large corpus average. Unparsed files
// count toward sizes but have no compact form.
func (e *Evaluator) checkSize(c *corpus.Corpus, f *findings) {
	limits := e.profile.SizeLimits
	if limits == nil {
		return
	}

	for _, file := range c.Files {
		if limits.MaxFileBytes > 0 && file.Size > limits.MaxFileBytes {
			f.warnf("%s: Large file size (%dKB)", file.Rel, int64(math.Round(float64(file.Size)/1024)))
		}
		if limits.MaxCompactRatio > 0 && file.OK() && file.Size > 0 {
			compact, err := canonical.Compact(file.Doc.Root)
			if err != nil {
				continue
			}
			ratio := float64(len(compact)) / float64(file.Size)
			if ratio >= limits.MaxCompactRatio {
				f.warnf("%s: Low compression ratio %.1f%%", file.Rel, ratio*100)
			}
		}
	}

	stats := c.Stats()
	if limits.MaxAverageBytes > 0 && stats.Files > 0 && stats.AverageBytes > float64(limits.MaxAverageBytes) {
		f.warnf("Average file size %.1fKB exceeds target (%dKB)", stats.AverageBytes/1024, limits.MaxAverageBytes/1024)
	}
}
