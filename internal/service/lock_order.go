package service

// lockOrder возвращает пару адресов в каноническом порядке захвата блокировок:
// лексикографически меньший адрес всегда блокируется первым, независимо от
// направления перевода. Два встречных перевода A→B и B→A берут блокировки
// в одном и том же порядке, поэтому циклическое ожидание невозможно.
func lockOrder(a, b string) (first, second string) {
	if b < a {
		return b, a
	}
	return a, b
}
