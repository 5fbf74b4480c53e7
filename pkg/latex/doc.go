// Package latex turns LaTeX-like function notation into canonical arithmetic.
//
// # Usage
//
//	expr, err := latex.Normalize(`y = \frac{1}{x}`)
//	if err != nil {
//	    // handle error
//	}
//	canonical := latex.Rewrite(expr) // "((1)/(x))"
//
// # Stages
//
// Rewriting is a fixed sequence of pure string functions. Each stage is
// exported so it can be exercised on its own:
//
//	1. FlattenFractions              \frac{a}{b}        -> ((a)/(b))
//	2. NormalizePowers               x^{2}, x^2          -> x**(2), x**2
//	3. RewriteRoots                  \sqrt[n]{a}, \sqrt a -> ((a))**(1/(n)), sqrt(a)
//	4. FoldExponentials              e**(a)              -> exp(a)
//	5. MapFunctions                  \sec(x), \ln x      -> (1/cos(x)), log(x)
//	6. SubstituteConstants           \pi, \cdot          -> (pi), *
//	7. InsertImplicitMultiplication  2x, )(              -> 2*x, )*(
//	8. Cleanup                       {}, |x|, \unknown   -> (), abs(x), ""
//
// Rewriting never fails. Whatever cannot be recognised is passed through (or,
// for unknown backslash commands, dropped) and left to the validator.
package latex
