// Package cmd implements the tpc command-line interface.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tpascal/go-tpc/internal/emitter"
	"github.com/tpascal/go-tpc/internal/errors"
	"github.com/tpascal/go-tpc/internal/lexer"
	"github.com/tpascal/go-tpc/internal/parser"
	"github.com/tpascal/go-tpc/internal/semantic"
	"github.com/tpascal/go-tpc/internal/toolchain"
	"github.com/tpascal/go-tpc/internal/units"
	"github.com/tpascal/go-tpc/pkg/token"
)

var (
	outputPath  string
	keepCpp     bool
	verbose     bool
	dumpTokens  bool
	dumpAST     bool
	unitDirs    []string
	cppCompiler string
)

var rootCmd = &cobra.Command{
	Use:   "tpc [flags] input.pas",
	Short: "Turbo Pascal 7 to C++ transpiler",
	Long: `tpc translates Turbo Pascal 7 programs into self-contained C++17
translation units and links them with the host C++ toolchain.

The translator preserves Pascal runtime semantics: 1-based indexing,
value-copy records, set algebra, bounded strings, and the System/CRT/DOS
standard surface.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          build,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	return err
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output executable path (default: input with the platform suffix)")
	rootCmd.Flags().BoolVar(&keepCpp, "keep-cpp", false, "retain the intermediate C++ translation unit")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose progress to stderr")
	rootCmd.Flags().BoolVar(&dumpTokens, "tokens", false, "print the token stream to stdout")
	rootCmd.Flags().BoolVar(&dumpAST, "ast", false, "print the AST to stdout")
	rootCmd.Flags().StringArrayVarP(&unitDirs, "include", "I", nil, "additional unit search directory (repeatable)")
	rootCmd.Flags().StringVar(&cppCompiler, "cpp-compiler", "", "C++ compiler to invoke (default: probe g++, clang++, c++)")
}

func progress(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "tpc: "+format+"\n", args...)
	}
}

func build(_ *cobra.Command, args []string) error {
	inputPath := args[0]

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	source := string(content)

	if dumpTokens {
		printTokens(source)
	}

	// Parse.
	progress("parsing %s", inputPath)
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()

	var diags []*errors.CompilerError
	for _, lerr := range p.LexerErrors() {
		diags = append(diags, errors.New(lerr.Pos, lerr.Message, source, inputPath))
	}
	for _, perr := range p.Errors() {
		diags = append(diags, errors.New(perr.Pos, perr.Message, source, inputPath))
	}
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, errors.FormatErrors(diags, true))
		return fmt.Errorf("parsing failed with %d error(s)", len(diags))
	}

	if dumpAST {
		fmt.Println(program.String())
	}

	// Analyse.
	progress("analysing")
	analyzer := semantic.NewAnalyzer()
	analyzer.SetUnitRegistry(units.NewRegistry(unitSearchPaths(inputPath)))
	analyzer.Analyze(program)

	if analyzer.HasErrors() {
		for _, serr := range analyzer.Errors() {
			diags = append(diags, errors.New(serr.Pos, serr.Message, source, inputPath))
		}
		fmt.Fprintln(os.Stderr, errors.FormatErrors(diags, true))
		return fmt.Errorf("analysis failed with %d error(s)", len(analyzer.Errors()))
	}

	// Emit.
	progress("emitting C++")
	cpp := emitter.New(analyzer.Symbols()).Emit(program, analyzer.LoadedUnits())

	exePath := outputPath
	if exePath == "" {
		exePath = toolchain.ExecutableName(inputPath)
	}
	cppPath := exePath + ".cpp"
	if err := os.WriteFile(cppPath, []byte(cpp), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cppPath, err)
	}

	// Link.
	compiler, err := toolchain.FindCompiler(cppCompiler)
	if err != nil {
		return err
	}
	progress("compiling with %s", compiler)
	if err := toolchain.Compile(compiler, cppPath, exePath, verbose); err != nil {
		if !keepCpp {
			os.Remove(cppPath)
		}
		return err
	}

	if !keepCpp {
		os.Remove(cppPath)
	} else {
		progress("kept %s", cppPath)
	}
	progress("wrote %s", exePath)
	return nil
}

// unitSearchPaths builds the fixed search list relative to the input file,
// followed by any -I additions.
func unitSearchPaths(inputPath string) []string {
	dir := filepath.Dir(inputPath)
	paths := []string{
		dir,
		filepath.Join(dir, "units"),
		filepath.Join(dir, ".."),
		filepath.Join(dir, "..", "units"),
	}
	return append(paths, unitDirs...)
}

// printTokens dumps the token stream for debugging.
func printTokens(source string) {
	l := lexer.New(source)
	for {
		tok := l.NextToken()
		lit := tok.Literal
		if strings.ContainsAny(lit, "\n\t") {
			lit = strings.NewReplacer("\n", "\\n", "\t", "\\t").Replace(lit)
		}
		fmt.Printf("%4d:%-3d %-15s %s\n", tok.Pos.Line, tok.Pos.Column, tok.Type, lit)
		if tok.Type == token.EOF {
			return
		}
	}
}
