package resolver

// PythonStdlib lists top-level standard library modules treated as external.
// It is not exhaustive; extend it with WithExternalModules.
var PythonStdlib = []string{
	"__future__", "abc", "argparse", "array", "ast", "asyncio", "atexit",
	"base64", "bisect", "builtins", "bz2", "calendar", "cmath", "codecs",
	"collections", "concurrent", "configparser", "contextlib", "contextvars",
	"copy", "copyreg", "csv", "ctypes", "dataclasses", "datetime", "decimal",
	"difflib", "dis", "email", "enum", "errno", "fcntl", "filecmp", "fnmatch",
	"fractions", "ftplib", "functools", "gc", "getpass", "gettext", "glob",
	"graphlib", "gzip", "hashlib", "heapq", "hmac", "html", "http", "imaplib",
	"importlib", "inspect", "io", "ipaddress", "itertools", "json", "keyword",
	"linecache", "locale", "logging", "lzma", "mailbox", "marshal", "math",
	"mimetypes", "mmap", "multiprocessing", "numbers", "operator", "os",
	"pathlib", "pickle", "pkgutil", "platform", "plistlib", "pprint",
	"profile", "pstats", "queue", "random", "re", "reprlib", "resource",
	"sched", "secrets", "select", "selectors", "shelve", "shlex", "shutil",
	"signal", "site", "smtplib", "socket", "socketserver", "sqlite3", "ssl",
	"stat", "statistics", "string", "struct", "subprocess", "sys",
	"sysconfig", "tarfile", "tempfile", "textwrap", "threading", "time",
	"timeit", "tkinter", "token", "tokenize", "tomllib", "trace",
	"traceback", "types", "typing", "unicodedata", "unittest", "urllib",
	"uuid", "venv", "warnings", "weakref", "webbrowser", "wsgiref", "xml",
	"xmlrpc", "zipfile", "zipimport", "zlib", "zoneinfo",
}
