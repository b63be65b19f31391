// Package cardgen turns rows of a spreadsheet into a batch of styled,
// fixed-size marketing card PDFs and packs them into one downloadable
// archive.
//
// # Quick Start
//
// Create a generator, run it against a workbook, and close when done:
//
//	gen, err := cardgen.NewGenerator(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	result, err := gen.Generate(ctx, "campaign.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.ArchivePath)
//
// # Pipeline
//
// Each run follows the same stages:
//
//  1. The output directory is purged of the previous run's artifacts.
//  2. The workbook's first sheet is read into rows; missing cells
//     default to the empty string.
//  3. Each row's free-text type is normalized onto a fixed set of card
//     categories; rows whose category has no template on disk are skipped.
//  4. The category's HTML template is filled in with row values and
//     inlined logo/seal images (base64 data URIs, no external fetches).
//  5. Headless Chrome (go-rod) renders the markup to a single
//     fixed-size PDF page per card.
//  6. All produced PDFs are packed into one zip at maximum compression.
//
// Rows are processed strictly in file order by a single worker sharing one
// browser instance; after every rendered card a ProgressSnapshot is
// published on the channel returned by Progress.
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. go-rod downloads a managed Chromium
// on first run. For containers and CI, set ROD_BROWSER_BIN to a
// pre-installed binary; the sandbox is disabled automatically when CI=true
// or ROD_BROWSER_BIN is set.
package cardgen
