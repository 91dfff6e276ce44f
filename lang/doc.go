// Package lang implements a minimal Lisp: a reader, an evaluator over
// lexically scoped environments, a small standard library, and a printer.
//
// # Syntax
//
// Source text is a sequence of parenthesized, whitespace-separated atoms.
// There are no strings, comments or reader macros. An atom that parses as a
// floating-point number is a Number; any other atom is a Symbol.
//
//	(define fact (lambda (n) (if (<= n 1) 1 (* n (fact (- n 1))))))
//	(fact 10)
//
// # Evaluation
//
// Symbols are looked up in the environment chain. Numbers and lists evaluate
// to themselves. A parenthesized form is either one of the special forms
// quote, if, define and lambda, or an application: the operator and operands
// are evaluated left to right and the operator is called.
//
// Only the symbol #t is true. Every other value selects the else branch of
// an if.
//
// # Rendering
//
// [Render] prints sequences with a space before every element and before
// the closing parenthesis:
//
//	(list 1 2 3)  ; renders as ( 1 2 3 )
//	(quote ())    ; renders as ( )
//
// Definitions and procedures render as the empty string.
package lang
