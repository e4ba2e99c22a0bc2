package core

// Prelude is evaluated in the root environment after the natives are bound.
var Prelude = []string{
	"(def! not (fn* (a) (if a false true)))",
	"(def! load-file (fn* (f) (eval (read-string (str \"(do \" (slurp f) \"\nnil)\")))))",
	"(def! *host-language* \"go\")",
	"(defmacro! cond (fn* (& xs) (if (> (count xs) 0) (list 'if (first xs) (if (> (count xs) 1) (nth xs 1) (throw \"odd number of forms to cond\")) (cons 'cond (rest (rest xs)))))))",
	"(defmacro! or (fn* (& xs) (if (empty? xs) nil (if (= 1 (count xs)) (first xs) (let* (tmp (gensym \"or__\")) `(let* (~tmp ~(first xs)) (if ~tmp ~tmp (or ~@(rest xs)))))))))",
	"(defmacro! and (fn* (& xs) (if (empty? xs) true (if (= 1 (count xs)) (first xs) (let* (tmp (gensym \"and__\")) `(let* (~tmp ~(first xs)) (if ~tmp (and ~@(rest xs)) ~tmp)))))))",
}
