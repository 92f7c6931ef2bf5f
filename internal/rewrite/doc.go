// Package rewrite implements the rule-based line rewriter.
//
// A rule is a literal pattern and a replacement. The pattern may start and end
// with a boundary marker that relaxes what may adjoin a match: '*' accepts any
// character, '+' a letter (anything that is not a separator) and '#' an ASCII
// digit.
//
// Without a marker only a separator (space, no-break space, '.', ',', '"',
// '-') may adjoin the match; an apostrophe is also accepted before it so
// contractions such as "A l'..." still match. The start and end of the line
// satisfy every boundary.
//
// Rules run in order, each over the output of the previous one.
package rewrite
