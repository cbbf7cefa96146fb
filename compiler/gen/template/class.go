package template

// Class is the whole generated module. Member slots are filled with the
// rendered function templates, in declaration order.
var Class = parse("class", `${.header}from __future__ import unicode_literals, absolute_import, print_function

from collections import namedtuple

from sqlalchemy import ${.types}${.named_imports}

from .alchemy_base import Base

__author__ = '${.author}'

UNSET = object()


class ${.class_name}(Base):
    __tablename__ = '${.table_name}'

${.columns}
${.init}
${.add}
${.update}
${.delete}
${.to_dict}
${.get_proxy_cls}
${.to_proxy}
${.from_proxy}
${.hash}
${.eq}
${.ne}
${.str}
${.unicode}
${.repr}
`)
